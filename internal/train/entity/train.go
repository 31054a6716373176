package entity

// Train is the primary trackable resource. The id is store-assigned on
// creation; rows are updated in place and never deleted.
type Train struct {
	TrainID     int64  `db:"trainid" json:"trainid"`
	Name        string `db:"name" json:"name"`
	LastDate    string `db:"last_date" json:"last_date"`
	LastTime    string `db:"last_time" json:"last_time"`
	NoOfPenalty int    `db:"no_of_penalty" json:"no_of_penalty"`
}

// Coach is a child resource of a train with its own penalty counter.
type Coach struct {
	TrainID     int64  `db:"trainid" json:"trainid"`
	CoachID     string `db:"coachid" json:"coachid"`
	NoOfPenalty int    `db:"no_of_penalty" json:"no_of_penalty"`
}
