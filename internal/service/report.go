package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/model"
	"github.com/libratrack/lms/pkg/kafka"
)

const mostBorrowedLimit = 10

// EnqueueReport records a pending report row and hands the generation job to
// the kafka-backed worker.
func (s *Service) EnqueueReport(ctx context.Context, req model.CreateReportRequest, generatedBy int) (model.Report, error) {
	report, err := s.repo.CreateReport(ctx, uuid.NewString(), req.ReportType, generatedBy)
	if err != nil {
		return model.Report{}, err
	}
	job := model.ReportJob{ReportUid: report.ReportUid, ReportType: report.ReportType}
	if err := s.enqueuer.Enqueue(kafka.ReportsTopic, job); err != nil {
		if ferr := s.repo.FinishReport(ctx, report.ReportUid, model.ReportStatusFailed, ""); ferr != nil {
			s.log.Error("EnqueueReport: mark failed", zap.Error(ferr))
		}
		return model.Report{}, errors.Wrap(err, "enqueue report job")
	}
	return report, nil
}

func (s *Service) GetReport(ctx context.Context, reportUid string) (model.Report, error) {
	return s.repo.GetReportByUid(ctx, reportUid)
}

func (s *Service) ListReports(ctx context.Context) ([]model.Report, error) {
	return s.repo.ListReports(ctx)
}

// GenerateReport runs one queued job to completion. Any failure marks the
// report row failed; the artifact is written only on success.
func (s *Service) GenerateReport(ctx context.Context, job model.ReportJob) error {
	log := s.log.Named("reports")

	content, err := s.buildReport(ctx, job.ReportType)
	if err == nil {
		err = s.writeArtifact(ctx, job, content)
	}
	if err != nil {
		log.Error("report generation failed",
			zap.String("reportUid", job.ReportUid),
			zap.String("reportType", string(job.ReportType)),
			zap.Error(err))
		if ferr := s.repo.FinishReport(ctx, job.ReportUid, model.ReportStatusFailed, ""); ferr != nil {
			log.Error("mark report failed", zap.Error(ferr))
		}
		return err
	}

	log.Info("report generated",
		zap.String("reportUid", job.ReportUid),
		zap.String("reportType", string(job.ReportType)))
	return nil
}

func (s *Service) buildReport(ctx context.Context, reportType model.ReportType) ([]byte, error) {
	now := s.now()
	switch reportType {
	case model.ReportMostBorrowedBooks:
		rows, err := s.repo.MostBorrowedBooks(ctx, mostBorrowedLimit)
		if err != nil {
			return nil, err
		}
		return MostBorrowedCSV(rows)
	case model.ReportLateBorrowers:
		rows, err := s.repo.LateBorrowings(ctx, now)
		if err != nil {
			return nil, err
		}
		return LateBorrowersCSV(rows)
	case model.ReportCurrentlyBorrowedBooks:
		rows, err := s.repo.OpenBorrowings(ctx)
		if err != nil {
			return nil, err
		}
		return CurrentlyBorrowedCSV(rows)
	}
	return nil, errors.Errorf("unknown report type %q", reportType)
}

func (s *Service) writeArtifact(ctx context.Context, job model.ReportJob, content []byte) error {
	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return errors.Wrap(err, "reports dir")
	}
	path := filepath.Join(s.reportsDir, fmt.Sprintf("%s_%s.csv", reportFilePrefix(job.ReportType), job.ReportUid))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrap(err, "write artifact")
	}
	return s.repo.FinishReport(ctx, job.ReportUid, model.ReportStatusSuccess, path)
}

func reportFilePrefix(reportType model.ReportType) string {
	switch reportType {
	case model.ReportMostBorrowedBooks:
		return "most_borrowed_books"
	case model.ReportLateBorrowers:
		return "late_borrowers"
	case model.ReportCurrentlyBorrowedBooks:
		return "currently_borrowed_books"
	}
	return "report"
}

func MostBorrowedCSV(rows []model.BorrowCount) ([]byte, error) {
	records := [][]string{{"Book Title", "Total Borrows"}}
	for _, row := range rows {
		records = append(records, []string{row.Title, fmt.Sprint(row.TotalBorrows)})
	}
	return encodeCSV(records)
}

func LateBorrowersCSV(rows []model.BorrowingRow) ([]byte, error) {
	records := [][]string{{"User", "Book Title", "Due Date"}}
	for _, row := range rows {
		records = append(records, []string{row.Username, row.Title, row.DueDate.Format(time.RFC3339)})
	}
	return encodeCSV(records)
}

func CurrentlyBorrowedCSV(rows []model.BorrowingRow) ([]byte, error) {
	records := [][]string{{"User", "Book Title", "Borrow Date"}}
	for _, row := range rows {
		records = append(records, []string{row.Username, row.Title, row.BorrowDate.Format(time.RFC3339)})
	}
	return encodeCSV(records)
}

func encodeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
