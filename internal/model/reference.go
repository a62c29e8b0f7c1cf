package model

import "github.com/google/uuid"

// Client is the commercial party a load is hauled for.
type Client struct {
	ID      uuid.UUID
	Name    string
	TaxID   string
	Address string
	Phone   string
}

type City struct {
	ID    uuid.UUID
	Name  string
	State string
}
