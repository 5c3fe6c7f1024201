package models

type LeadRequest struct {
	Email string `json:"email" binding:"required,email"`
	// Source defaults to LANDING_HOME.
	Source string `json:"source,omitempty"`
}

type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}
