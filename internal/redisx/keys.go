package redisx

import "time"

const (
	// Session token -> identity JSON: session:{token}
	KeySession = "session:%s"

	// Cached catalog listing for GET /api/books
	KeyBooksCache = "cache:books"
)

var (
	TTLSession    = 24 * time.Hour
	TTLBooksCache = 60 * time.Second
)
