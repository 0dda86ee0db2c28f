package catalog

type Book struct {
	BookID              int     `bson:"BookID" json:"BookID"`
	BookTitle           string  `bson:"BookTitle" json:"BookTitle"`
	AuthorName          string  `bson:"AuthorName" json:"AuthorName"`
	BookPrice           float64 `bson:"BookPrice" json:"BookPrice"`
	BookQuantity        int     `bson:"BookQuantity" json:"BookQuantity"`
	BookPublisher       string  `bson:"BookPublisher,omitempty" json:"BookPublisher,omitempty"`
	BookPublicationDate string  `bson:"BookPublicationDate,omitempty" json:"BookPublicationDate,omitempty"`
}
