package models

import "time"

// User is the identity document kept in the "users" collection.
// UID is the identity provider's subject and doubles as the document id.
type User struct {
	UID         string      `json:"uid" bson:"_id"`
	DisplayName string      `json:"displayName" bson:"displayName"`
	Email       string      `json:"email" bson:"email"`
	PhotoURL    string      `json:"photoURL" bson:"photoURL"`
	Role        Role        `json:"role" bson:"role"`
	StudentInfo StudentInfo `json:"studentInfo" bson:"studentInfo"`
	Contact     Contact     `json:"contact" bson:"contact"`
	Favorites   []string    `json:"favorites" bson:"favorites"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	LastLoginAt time.Time   `json:"lastLoginAt" bson:"lastLoginAt"`
}

type StudentInfo struct {
	StudentID string `json:"studentId" bson:"studentId"`
	Faculty   string `json:"faculty" bson:"faculty"`
	Major     string `json:"major" bson:"major"`
	Year      int    `json:"year" bson:"year"`
}

type Contact struct {
	Phone   string `json:"phone" bson:"phone"`
	LineID  string `json:"lineId" bson:"lineId"`
	Address string `json:"address" bson:"address"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// HasFavorite reports whether courseID is in the user's favorites set.
func (u User) HasFavorite(courseID string) bool {
	for _, id := range u.Favorites {
		if id == courseID {
			return true
		}
	}
	return false
}
