package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCollectionRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type CollectionDTO struct {
	CollectionID uint64 `json:"collection_id"`
	Creator      string `json:"creator"`
	ContractAddr string `json:"contract_addr"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	CreatedAt    string `json:"created_at"`
}

type CollectionResponse struct {
	Status string        `json:"status"`
	Data   CollectionDTO `json:"data"`
}

type CreateItemRequest struct {
	CollectionID uint64 `json:"collection_id"`
	URI          string `json:"uri"`
}

type ItemDTO struct {
	TokenID      uint64 `json:"token_id"`
	CollectionID uint64 `json:"collection_id"`
	Owner        string `json:"owner"`
	URI          string `json:"uri"`
	MintedAt     string `json:"minted_at"`
}

type ItemResponse struct {
	Status string  `json:"status"`
	Data   ItemDTO `json:"data"`
}
