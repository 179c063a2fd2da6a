package auth

import (
	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIdKey = "id"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(user *models.User) error {
	s.Set(userIdKey, user.ID)
	return s.Save()
}

func (s *Session) LogoutUser() {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = s.Save()
}

// Profile returns the profile of the logged in user, ID 0 if there is none
func (s *Session) Profile() (profile models.Profile) {
	id, ok := s.Get(userIdKey).(uint64)
	if !ok || id == 0 {
		return
	}
	profile, err := models.FindProfileByUser(db.Instance, id)
	if err != nil {
		return models.Profile{}
	}
	return
}

// Flash queues a one-off message shown by the next page that reads them
func (s *Session) Flash(message string) {
	s.AddFlash(message)
	_ = s.Save()
}

func (s *Session) Messages() []string {
	messages := []string{}
	for _, m := range s.Flashes() {
		if text, ok := m.(string); ok {
			messages = append(messages, text)
		}
	}
	_ = s.Save()
	return messages
}
