package response_models

type SpotResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	SSID             string   `json:"ssid,omitempty"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Quality          float64  `json:"quality"`
	DownloadMbps     float64  `json:"download_mbps"`
	UploadMbps       float64  `json:"upload_mbps"`
	IsFree           bool     `json:"is_free"`
	PasswordRequired bool     `json:"password_required"`
	ReportCount      int      `json:"report_count"`
	UpdatedAt        string   `json:"updated_at"`
	DistanceM        *float64 `json:"distance_m,omitempty"`
	CoinsAwarded     int64    `json:"coins_awarded,omitempty"`
}
