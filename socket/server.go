package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"emberly_server/models"
)

// NewSocketServer initializes and returns a new Socket.IO server. Clients
// join a room per profile id right after connecting; match events are
// broadcast into those rooms.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, profileID string) {
		if profileID == "" {
			log.Println("❌ Invalid profileId in join request")
			return
		}
		c.Join(profileRoom(profileID))
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}

func profileRoom(profileID string) string {
	return "profile:" + profileID
}

// MatchEmitter delivers new_match events over socket.io, one tailored
// payload per party's room.
type MatchEmitter struct {
	Server *socketio.Server
}

func (me *MatchEmitter) EmitNewMatch(event models.MatchNotificationEvent) {
	for i, recipient := range event.Parties {
		other := event.Parties[1-i]
		payload := map[string]interface{}{
			"matchId":         event.MatchID,
			"matchedAt":       event.MatchedAt,
			"matchedUserId":   other.ProfileID,
			"matchedUserName": other.DisplayName,
			"isCurrentUser":   recipient.ProfileID == event.InitiatorID,
		}
		me.Server.BroadcastToRoom("/", profileRoom(recipient.ProfileID), "new_match", payload)
	}
}
