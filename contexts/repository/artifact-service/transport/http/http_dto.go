package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ArtifactDTO struct {
	ArtifactID string `json:"artifact_id"`
	ModuleID   string `json:"module_id"`
	Filename   string `json:"filename"`
	SHA1       string `json:"sha1"`
	MD5        string `json:"md5"`
	SizeBytes  int64  `json:"size_bytes"`
	CreatedAt  string `json:"created_at"`
}

type ArtifactResponse struct {
	Status string      `json:"status"`
	Data   ArtifactDTO `json:"data"`
}

type ArtifactListResponse struct {
	Status string        `json:"status"`
	Data   []ArtifactDTO `json:"data"`
}
