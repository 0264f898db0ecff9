package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/learnsphere/backend/configs"
	"github.com/learnsphere/backend/database"
	"github.com/learnsphere/backend/models"
	"github.com/learnsphere/backend/notifications"
	"github.com/learnsphere/backend/utils"
	"github.com/learnsphere/backend/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertCertificate creates or refreshes the single certificate row for a
// (user, course) pair. A refresh regenerates the verification code and
// clears the stale download URL; the unique key makes concurrent claims
// converge on one row.
func UpsertCertificate(tx *gorm.DB, userID, courseID uuid.UUID) (models.Certificate, error) {
	code, err := utils.GenerateVerificationCode(tx)
	if err != nil {
		return models.Certificate{}, err
	}

	now := time.Now()
	cert := models.Certificate{
		UserID:           userID,
		CourseID:         courseID,
		VerificationCode: code,
		IssuedAt:         now,
	}

	err = tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"verification_code": code,
			"issued_at":         now,
			"certificate_url":   nil,
			"updated_at":        now,
		}),
	}).Create(&cert).Error
	if err != nil {
		return models.Certificate{}, err
	}

	// Reload so the caller sees the surviving row, not the insert candidate.
	if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error; err != nil {
		return models.Certificate{}, err
	}

	return cert, nil
}

// GenerateCertificateArtifact renders the certificate PDF, uploads it and
// stamps the URL onto the row. Runs in the background after issuance so a
// slow renderer never blocks the claim request.
func GenerateCertificateArtifact(certificateID uuid.UUID) {
	var cert models.Certificate
	err := database.DB.Preload("User").Preload("Course.Instructor").First(&cert, "id = ?", certificateID).Error
	if err != nil {
		log.Printf("🔥 Certificate %s not found for rendering: %v", certificateID, err)
		return
	}

	htmlData, err := renderCertificateHTML(cert)
	if err != nil {
		log.Printf("🔥 Failed to render certificate HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, cert.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload certificate to Cloudinary: %v", err)
		return
	}

	if err := database.DB.Model(&cert).Update("certificate_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to save certificate URL for %s: %v", cert.ID, err)
		return
	}

	log.Printf("✅ Generated and uploaded certificate for %s / %s.", cert.User.FullName, cert.Course.Title)

	notifications.SendCertificateIssuedEmail(cert.User.Email, cert.User.FullName, cert.Course.Title, cert.VerificationCode, &uploadURL)
	websocket.NotifyUser(cert.UserID, websocket.EventCertificateIssued, map[string]interface{}{
		"course_title":      cert.Course.Title,
		"verification_code": cert.VerificationCode,
		"certificate_url":   uploadURL,
	})
}

func renderCertificateHTML(cert models.Certificate) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName      string
		CourseTitle      string
		InstructorName   string
		IssueDate        string
		VerificationCode string
	}{
		StudentName:      cert.User.FullName,
		CourseTitle:      cert.Course.Title,
		InstructorName:   cert.Course.Instructor.FullName,
		IssueDate:        cert.IssuedAt.Format("January 2, 2006"),
		VerificationCode: cert.VerificationCode,
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, certificateID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s", certificateID),
		Folder:       "learnsphere_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
