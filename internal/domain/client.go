package domain

// Client is a product owner the store sells on behalf of.
type Client struct {
	ID         int64  `json:"id"`
	ClientName string `json:"clientName"`
}

// ClientForm creates or renames a client.
type ClientForm struct {
	ClientName string `json:"clientName" validate:"required"`
}
