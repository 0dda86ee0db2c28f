package auth

// Customer is the stored account record. CustomerPassword holds a bcrypt
// hash, never the plaintext.
type Customer struct {
	CustomerID       int    `bson:"CustomerID" json:"CustomerID"`
	CustomerName     string `bson:"CustomerName" json:"CustomerName"`
	CustomerEmail    string `bson:"CustomerEmail" json:"CustomerEmail"`
	CustomerPassword string `bson:"CustomerPassword" json:"-"`
}

// Identity is the verified caller identity attached to a session. Workflows
// take it as an explicit parameter rather than reading ambient session state.
type Identity struct {
	CustomerID    int    `json:"CustomerID"`
	CustomerName  string `json:"CustomerName"`
	CustomerEmail string `json:"CustomerEmail"`
}
