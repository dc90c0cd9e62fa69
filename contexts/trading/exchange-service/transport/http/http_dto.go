package http

// Amounts travel as decimal strings; they are 256-bit unsigned integers and
// do not fit JSON numbers.

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ListItemRequest struct {
	CollectionID uint64 `json:"collection_id"`
	TokenID      uint64 `json:"token_id"`
	Price        string `json:"price"`
	PayToken     string `json:"pay_token,omitempty"`
}

type BuyItemRequest struct {
	CollectionID uint64 `json:"collection_id"`
	TokenID      uint64 `json:"token_id"`
	Value        string `json:"value,omitempty"`
}

type CancelListingRequest struct {
	CollectionID uint64 `json:"collection_id"`
	TokenID      uint64 `json:"token_id"`
}

type ListingDTO struct {
	TokenID      uint64 `json:"token_id"`
	CollectionID uint64 `json:"collection_id"`
	Seller       string `json:"seller"`
	Price        string `json:"price"`
	PayToken     string `json:"pay_token,omitempty"`
	ListedAt     string `json:"listed_at"`
}

type ListingResponse struct {
	Status string     `json:"status"`
	Data   ListingDTO `json:"data"`
}

type ListItemOnAuctionRequest struct {
	CollectionID    uint64 `json:"collection_id"`
	TokenID         uint64 `json:"token_id"`
	MinPrice        string `json:"min_price"`
	MinBidIncrement string `json:"min_bid_increment"`
	PayToken        string `json:"pay_token,omitempty"`
}

type MakeBidRequest struct {
	CollectionID uint64 `json:"collection_id"`
	TokenID      uint64 `json:"token_id"`
	Bid          string `json:"bid"`
	Value        string `json:"value,omitempty"`
}

type FinishAuctionRequest struct {
	CollectionID uint64 `json:"collection_id"`
	TokenID      uint64 `json:"token_id"`
}

type CancelAuctionRequest struct {
	CollectionID uint64 `json:"collection_id"`
	TokenID      uint64 `json:"token_id"`
}

type AuctionDTO struct {
	TokenID         uint64 `json:"token_id"`
	CollectionID    uint64 `json:"collection_id"`
	Seller          string `json:"seller"`
	MinPrice        string `json:"min_price"`
	MinBidIncrement string `json:"min_bid_increment"`
	PayToken        string `json:"pay_token,omitempty"`
	HighestBidder   string `json:"highest_bidder,omitempty"`
	HighestBid      string `json:"highest_bid,omitempty"`
	EndTime         string `json:"end_time"`
	CreatedAt       string `json:"created_at"`
}

type AuctionResponse struct {
	Status string     `json:"status"`
	Data   AuctionDTO `json:"data"`
}

type AckResponse struct {
	Status string `json:"status"`
}
