package chat

// User is the locally signed-in account. It lives in memory and in the
// stored user blob, nowhere else; logout destroys it along with every
// session it owns.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
