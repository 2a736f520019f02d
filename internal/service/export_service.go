package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/export"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/jobs"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/storage"
)

type exportStudentSource interface {
	ListWithLastInteraction(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithLastInteraction, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

type exportInteractionSource interface {
	List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionDetail, int, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix  string
	ResultTTL  time.Duration
	Workers    int
	MaxRetries int
}

// ExportService renders student and interaction datasets to downloadable
// files in the background, and handles the reverse direction: bulk CSV
// import of students.
type ExportService struct {
	students     exportStudentSource
	interactions exportInteractionSource
	storage      fileStorage
	csv          csvRenderer
	pdf          pdfRenderer
	signer       *storage.SignedURLSigner
	analytics    *AnalyticsService
	logger       *zap.Logger
	cfg          ExportConfig

	queue *jobs.Queue

	mu      sync.RWMutex
	tracked map[string]*models.ExportJob
}

// NewExportService constructs an ExportService.
func NewExportService(students exportStudentSource, interactions exportInteractionSource, store fileStorage, signer *storage.SignedURLSigner, analytics *AnalyticsService, cfg ExportConfig, logger *zap.Logger, csvExp csvRenderer, pdfExp pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csvExp == nil {
		csvExp = export.NewCSVExporter()
	}
	if pdfExp == nil {
		pdfExp = export.NewPDFExporter()
	}
	s := &ExportService{
		students:     students,
		interactions: interactions,
		storage:      store,
		csv:          csvExp,
		pdf:          pdfExp,
		signer:       signer,
		analytics:    analytics,
		logger:       logger,
		cfg:          cfg,
		tracked:      make(map[string]*models.ExportJob),
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the background workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the background workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Create queues a new export and returns its tracking record.
func (s *ExportService) Create(ctx context.Context, req dto.CreateExportRequest, actor *models.JWTClaims) (*models.ExportJob, error) {
	if actor == nil || actor.UserID == "" {
		return nil, appErrors.ErrUnauthorized
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		Type:        models.ExportType(strings.ToUpper(req.Type)),
		Format:      models.ExportFormat(strings.ToUpper(req.Format)),
		Status:      models.ExportStatusQueued,
		RequestedBy: actor.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	switch job.Type {
	case models.ExportTypeStudents, models.ExportTypeInteractions:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export type")
	}
	switch job.Format {
	case models.ExportFormatCSV, models.ExportFormatPDF:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	s.mu.Lock()
	s.tracked[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		s.mu.Lock()
		delete(s.tracked, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "export queue unavailable")
	}
	return s.snapshot(job.ID), nil
}

// Get returns the current state of a tracked export.
func (s *ExportService) Get(id string) (*models.ExportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	return job, nil
}

// process runs on a queue worker.
func (s *ExportService) process(ctx context.Context, qj jobs.Job) error {
	job := s.snapshot(qj.ID)
	if job == nil {
		return fmt.Errorf("export %s no longer tracked", qj.ID)
	}
	s.setStatus(qj.ID, models.ExportStatusRunning, "")

	dataset, title, err := s.buildDataset(ctx, job.Type)
	if err != nil {
		s.setStatus(qj.ID, models.ExportStatusFailed, err.Error())
		return err
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		s.setStatus(qj.ID, models.ExportStatusFailed, err.Error())
		return err
	}

	filename := fmt.Sprintf("%s_%s.%s",
		strings.ToLower(string(job.Type)),
		time.Now().UTC().Format("20060102_150405"),
		strings.ToLower(string(job.Format)))
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.setStatus(qj.ID, models.ExportStatusFailed, err.Error())
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.setStatus(qj.ID, models.ExportStatusFailed, err.Error())
		return err
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	completedAt := time.Now().UTC()
	s.mu.Lock()
	if tracked, ok := s.tracked[job.ID]; ok {
		tracked.Status = models.ExportStatusCompleted
		tracked.FilePath = relPath
		tracked.DownloadURL = fmt.Sprintf("%s/exports/%s/download?token=%s", prefix, job.ID, token)
		tracked.CompletedAt = &completedAt
		tracked.ExpiresAt = &expiresAt
	}
	s.mu.Unlock()

	s.logger.Info("export completed",
		zap.String("export_id", job.ID),
		zap.String("type", string(job.Type)),
		zap.String("format", string(job.Format)))
	return nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes export files older than ttl (configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) snapshot(id string) *models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.tracked[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

func (s *ExportService) setStatus(id string, status models.ExportStatus, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.tracked[id]; ok {
		job.Status = status
		job.Error = errMsg
	}
}

func (s *ExportService) buildDataset(ctx context.Context, exportType models.ExportType) (export.Dataset, string, error) {
	switch exportType {
	case models.ExportTypeStudents:
		return s.buildStudentDataset(ctx)
	case models.ExportTypeInteractions:
		return s.buildInteractionDataset(ctx)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", exportType)
	}
}

func (s *ExportService) buildStudentDataset(ctx context.Context) (export.Dataset, string, error) {
	rows, err := s.students.ListWithLastInteraction(ctx, models.StudentFilter{})
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		cohort := ""
		if row.Cohort != nil {
			cohort = strconv.Itoa(*row.Cohort)
		}
		lastContact := ""
		if row.LastInteractionAt != nil {
			lastContact = row.LastInteractionAt.UTC().Format(time.RFC3339)
		}
		dataRows = append(dataRows, map[string]string{
			"First Name":       row.FirstName,
			"Last Name":        row.LastName,
			"Email":            row.Email,
			"Program":          row.Program,
			"Cohort":           cohort,
			"Active":           strconv.FormatBool(row.Active),
			"Last Interaction": lastContact,
		})
	}
	dataset := export.Dataset{
		Headers: []string{"First Name", "Last Name", "Email", "Program", "Cohort", "Active", "Last Interaction"},
		Rows:    dataRows,
	}
	return dataset, "Students", nil
}

func (s *ExportService) buildInteractionDataset(ctx context.Context) (export.Dataset, string, error) {
	notArchived := false
	var rows []models.InteractionDetail
	for page := 1; ; page++ {
		batch, total, err := s.interactions.List(ctx, models.InteractionFilter{
			Archived: &notArchived,
			Page:     page,
			PageSize: 100,
		})
		if err != nil {
			return export.Dataset{}, "", err
		}
		rows = append(rows, batch...)
		if len(batch) == 0 || len(rows) >= total {
			break
		}
	}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Student":        row.StudentName,
			"Staff":          row.StaffName,
			"Type":           string(row.Type),
			"Notes":          row.Notes,
			"Follow-up Due":  row.FollowUpDate,
			"Follow-up Sent": strconv.FormatBool(row.FollowUpSent),
			"Logged At":      row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Student", "Staff", "Type", "Notes", "Follow-up Due", "Follow-up Sent", "Logged At"},
		Rows:    dataRows,
	}
	return dataset, "Interactions", nil
}

// Cohort is optional on import; every other column must be present.
var studentImportRequiredColumns = []string{"first_name", "last_name", "email", "program"}

// ImportStudentsCSV bulk-creates students from an uploaded CSV. Rows that
// fail validation are skipped and reported; valid rows are still created.
func (s *ExportService) ImportStudentsCSV(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty or unreadable CSV file")
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range studentImportRequiredColumns {
		if _, ok := index[required]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing required column %q", required))
		}
	}

	result := &models.ImportResult{}
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Reason: "malformed CSV row"})
			continue
		}

		student, reason := s.parseImportRow(record, index)
		if reason != "" {
			result.Skipped++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Reason: reason})
			continue
		}

		exists, err := s.students.ExistsByEmail(ctx, student.Email, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student email")
		}
		if exists {
			result.Skipped++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Reason: "email already registered"})
			continue
		}

		if err := s.students.Create(ctx, student); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Reason: "failed to create student"})
			s.logger.Warn("import row failed", zap.Int("row", rowNum), zap.Error(err))
			continue
		}
		result.Created++
	}

	if result.Created > 0 && s.analytics != nil {
		s.analytics.Invalidate(ctx)
	}
	return result, nil
}

func (s *ExportService) parseImportRow(record []string, index map[string]int) (*models.Student, string) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	student := &models.Student{
		FirstName: field("first_name"),
		LastName:  field("last_name"),
		Email:     strings.ToLower(field("email")),
		Program:   field("program"),
		Active:    true,
	}
	if student.FirstName == "" || student.LastName == "" {
		return nil, "first_name and last_name are required"
	}
	if student.Email == "" || !strings.Contains(student.Email, "@") {
		return nil, "invalid email"
	}
	if student.Program == "" {
		return nil, "program is required"
	}
	if raw := field("cohort"); raw != "" {
		cohort, err := strconv.Atoi(raw)
		if err != nil || cohort < 1 {
			return nil, "cohort must be a positive integer"
		}
		student.Cohort = &cohort
	}
	return student, ""
}
