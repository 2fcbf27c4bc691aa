package entity

import "time"

type Exercise struct {
	Name string `json:"name" firestore:"name"`
	Sets int    `json:"sets" firestore:"sets"`
	Reps int    `json:"reps" firestore:"reps"`
}

type Workout struct {
	ID        string     `json:"id" firestore:"id"`
	OwnerID   string     `json:"owner_id" firestore:"ownerId"`
	Name      string     `json:"name" firestore:"name"`
	Day       string     `json:"day" firestore:"day"` // e.g. "Monday"
	Exercises []Exercise `json:"exercises" firestore:"exercises"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
}
