package controllers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/policy"
	"github.com/vnkhanh/hostel-server/utils"
)

// ExportDir is where finished exports are written; routes.SetupRoutes wires it from config.
var ExportDir = "./exports"

type exportReq struct {
	Resource string `json:"resource" binding:"required,oneof=hostels bookings"`
	Format   string `json:"format" binding:"omitempty,oneof=csv xlsx"`
}

// POST /admin/exports
func CreateExport(c *gin.Context) {
	actor := middleware.MustIdentity(c)
	if err := policy.Authorize(actor, policy.ExportData, policy.Resource{}); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	var req exportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}

	job := models.ExportJob{
		JobID:       uuid.NewString(),
		Resource:    req.Resource,
		Format:      req.Format,
		RequestedBy: actor.ID,
		Status:      models.ExportQueued,
	}
	if err := config.DB.Create(&job).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}

	go ProcessExportJob(config.DB, job.JobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
	})
}

// GET /admin/exports/:job_id
func GetExport(c *gin.Context) {
	if err := policy.Authorize(middleware.MustIdentity(c), policy.ExportData, policy.Resource{}); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", c.Param("job_id")).Error; err != nil {
		utils.AbortWithError(c, utils.StoreError(err, "Export job not found"))
		return
	}

	if job.Status == models.ExportDone && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, filepath.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

// ProcessExportJob renders the job's resource to a file and records the outcome.
func ProcessExportJob(db *gorm.DB, jobID string) {
	var job models.ExportJob
	if err := db.First(&job, "job_id = ?", jobID).Error; err != nil {
		log.Printf("export %s: load job: %v", jobID, err)
		return
	}
	setExportStatus(db, job, map[string]interface{}{"status": models.ExportProcessing})

	outPath, err := writeExport(db, job)
	finishExport(db, job, outPath, err)
}

// finishExport marks the job done, or failed with any partial file removed.
func finishExport(db *gorm.DB, job models.ExportJob, outPath string, err error) {
	if err != nil {
		log.Printf("export %s: %v", job.JobID, err)
		if outPath != "" {
			if rmErr := os.Remove(outPath); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Printf("export %s: remove partial file: %v", job.JobID, rmErr)
			}
		}
		setExportStatus(db, job, map[string]interface{}{"status": models.ExportFailed, "error_msg": err.Error()})
		return
	}
	setExportStatus(db, job, map[string]interface{}{"status": models.ExportDone, "file_path": outPath})
}

func setExportStatus(db *gorm.DB, job models.ExportJob, fields map[string]interface{}) {
	if err := db.Model(&models.ExportJob{}).Where("job_id = ?", job.JobID).Updates(fields).Error; err != nil {
		log.Printf("export %s: set %v: %v", job.JobID, fields["status"], err)
	}
}

func writeExport(db *gorm.DB, job models.ExportJob) (string, error) {
	var rows [][]string
	var err error
	switch job.Resource {
	case "hostels":
		rows, err = hostelRows(db)
	case "bookings":
		rows, err = bookingRows(db)
	default:
		return "", fmt.Errorf("unknown resource %q", job.Resource)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(ExportDir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(ExportDir, fmt.Sprintf("%s_%s.%s", job.Resource, job.JobID, job.Format))

	switch job.Format {
	case "xlsx":
		return outPath, writeXLSX(outPath, job.Resource, rows)
	case "csv":
		return outPath, writeCSV(outPath, rows)
	}
	return "", fmt.Errorf("unknown format %q", job.Format)
}

func hostelRows(db *gorm.DB) ([][]string, error) {
	var hostels []models.Hostel
	if err := db.Preload("Owner").Order("id ASC").Find(&hostels).Error; err != nil {
		return nil, err
	}
	rows := [][]string{{"id", "name", "city", "address", "rent", "facilities", "owner_email", "is_verified", "created_at"}}
	for _, h := range hostels {
		owner := ""
		if h.Owner != nil {
			owner = h.Owner.Email
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(h.ID), 10),
			h.Name,
			h.City,
			h.Address,
			strconv.Itoa(h.Rent),
			h.Facilities,
			owner,
			strconv.FormatBool(h.IsVerified),
			h.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows, nil
}

func bookingRows(db *gorm.DB) ([][]string, error) {
	var bookings []models.Booking
	if err := db.Preload("Hostel").Preload("Student").Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	rows := [][]string{{"id", "hostel_id", "hostel_name", "student_email", "status", "created_at"}}
	for _, b := range bookings {
		hostel, student := "", ""
		if b.Hostel != nil {
			hostel = b.Hostel.Name
		}
		if b.Student != nil {
			student = b.Student.Email
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(b.ID), 10),
			strconv.FormatUint(uint64(b.HostelID), 10),
			hostel,
			student,
			string(b.Status),
			b.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]interface{}, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
