package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GrantArtistRoleRequest struct {
	Account string `json:"account"`
}

type GrantDTO struct {
	Role      string `json:"role"`
	Account   string `json:"account"`
	GrantedBy string `json:"granted_by"`
	GrantedAt string `json:"granted_at"`
}

type GrantArtistRoleResponse struct {
	Status string   `json:"status"`
	Data   GrantDTO `json:"data"`
}

type HasRoleResponse struct {
	Status string `json:"status"`
	Data   struct {
		Role    string `json:"role"`
		Account string `json:"account"`
		HasRole bool   `json:"has_role"`
	} `json:"data"`
}
