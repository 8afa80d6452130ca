package request_models

type CreateSpotRequest struct {
	Name             string   `json:"name" binding:"required,notblank,max=200"`
	SSID             string   `json:"ssid" binding:"max=64"`
	Latitude         *float64 `json:"latitude" binding:"required,latitude"`
	Longitude        *float64 `json:"longitude" binding:"required,longitude"`
	Quality          int      `json:"quality" binding:"required,min=1,max=5"`
	DownloadMbps     *float64 `json:"download_mbps" binding:"omitempty,min=0"`
	UploadMbps       *float64 `json:"upload_mbps" binding:"omitempty,min=0"`
	IsFree           bool     `json:"is_free"`
	PasswordRequired bool     `json:"password_required"`
}

type SpotReportRequest struct {
	Quality      int      `json:"quality" binding:"required,min=1,max=5"`
	DownloadMbps *float64 `json:"download_mbps" binding:"omitempty,min=0"`
	UploadMbps   *float64 `json:"upload_mbps" binding:"omitempty,min=0"`
}
