package entity

// TC represents a ticket-checker account row in the `tc` table.
// Rows are written once at registration and never mutated afterward.
type TC struct {
	ID      int64  `db:"id" json:"-"`
	TrainID string `db:"trainid" json:"trainid"`
	TCID    string `db:"tcid" json:"tcid"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Zone    string `db:"zone" json:"zone"`
	APIKey  string `db:"api_key" json:"api_key"`
}

// LoginView is the projection returned to a caller on a successful login.
type LoginView struct {
	Name   string `db:"name" json:"name"`
	Email  string `db:"email" json:"email"`
	APIKey string `db:"api_key" json:"apiKey"`
}
