package entity

import "time"

type User struct {
	ID          string    `json:"id" firestore:"id"`
	Username    string    `json:"username" firestore:"username"`
	DisplayName string    `json:"display_name" firestore:"displayName"`
	PhotoURL    string    `json:"photo_url,omitempty" firestore:"photoUrl,omitempty"`
	Bio         string    `json:"bio,omitempty" firestore:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
