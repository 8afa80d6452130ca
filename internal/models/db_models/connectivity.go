package db_models

import "github.com/google/uuid"

type ConnectivitySpot struct {
	BaseModel
	Name             string `gorm:"not null"`
	SSID             string
	Latitude         float64
	Longitude        float64
	Quality          float64
	DownloadMbps     float64
	UploadMbps       float64
	IsFree           bool
	PasswordRequired bool
	ReportCount      int
	ReportedBy       *uuid.UUID `gorm:"type:uuid"`
}

type ConnectivityReport struct {
	BaseModel
	SpotID       uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Quality      int
	DownloadMbps *float64
	UploadMbps   *float64
}

// ApplyReport folds a new quality score into the running mean and
// overwrites speeds that were measured.
func (s *ConnectivitySpot) ApplyReport(quality int, download, upload *float64) {
	n := float64(s.ReportCount)
	s.Quality = (s.Quality*n + float64(quality)) / (n + 1)
	s.ReportCount++
	if download != nil {
		s.DownloadMbps = *download
	}
	if upload != nil {
		s.UploadMbps = *upload
	}
}
