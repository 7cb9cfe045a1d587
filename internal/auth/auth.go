// Package auth implements registration and login against the student
// collection, plus the fixed single-tenant teacher credential.
package auth

import (
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

const minPasswordLen = 4

// Roles carried in session contexts and JWT claims.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type Gate struct {
	store           *store.Store
	teacherUsername string
	teacherPassword string
}

func NewGate(s *store.Store, teacherUsername, teacherPassword string) *Gate {
	return &Gate{store: s, teacherUsername: teacherUsername, teacherPassword: teacherPassword}
}

// Register creates a student with zeroed counters and an empty badge set.
func (g *Gate) Register(username, password string) (*models.Student, error) {
	if username == "" || password == "" {
		return nil, ErrFieldsRequired
	}
	if username == g.teacherUsername {
		return nil, ErrUsernameReserved
	}
	if _, err := g.store.GetStudent(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	st := &models.Student{
		Username: username,
		Password: hashed,
		Badges:   datatypes.JSONSlice[string]{},
	}
	if err := g.store.PutStudent(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Login validates credentials and opens (resets) the session record for the
// student. The session row survives logout for historical analytics; login
// replaces it wholesale.
func (g *Gate) Login(username, password string) (*models.Student, error) {
	if username == "" || password == "" {
		return nil, ErrFieldsRequired
	}
	st, err := g.store.GetStudent(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !passwordMatches(st.Password, password) {
		return nil, ErrIncorrectPassword
	}
	if err := g.openSession(username); err != nil {
		return nil, err
	}
	return st, nil
}

// LoginTeacher checks only equality against the fixed out-of-band
// credential pair. Teachers get no session record of their own.
func (g *Gate) LoginTeacher(username, password string) error {
	if username != g.teacherUsername || password != g.teacherPassword {
		return ErrIncorrectPassword
	}
	return nil
}

func (g *Gate) openSession(username string) error {
	now := time.Now()
	return g.store.PutSession(&models.Session{
		Username:  username,
		Focus:     models.FocusNone,
		StartTime: now,
		LastSeen:  now,
	})
}
