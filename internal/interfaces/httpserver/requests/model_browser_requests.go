package requests

// SearchRequest is the body of POST /v1/model-browser/search. Both fields are optional.
type SearchRequest struct {
	SearchTerm string `json:"search_term" example:"partner"`
	Limit      int    `json:"limit" example:"100"`
}

// OpenRequest is the body of POST /v1/model-browser/open. A missing or blank
// model name resolves to false like any other unknown model.
type OpenRequest struct {
	ModelName string `json:"model_name" example:"res.partner"`
}
