package report

import (
	"context"
	"fmt"

	"marketpulse/models"
	"marketpulse/services/analytics"
	"marketpulse/utils"

	"go.uber.org/zap"
)

// Export generates the report and serializes it into the requested format.
// A render or storage failure after the artifact row exists is not raised
// as a hard failure: the row stays queryable in the generating state and
// the caller can retry through history plus regeneration.
func (s *DefaultReportService) Export(ctx context.Context, providerID string, format models.ReportFormat, opts models.ReportOptions) (*models.ExportResult, error) {
	opts.Format = format
	doc, err := s.Generate(ctx, providerID, opts)
	if err != nil {
		return nil, err
	}

	result := &models.ExportResult{
		ReportID:  doc.Artifact.ID,
		ExpiresAt: doc.Artifact.ExpiresAt,
	}

	data, err := Render(doc, format)
	if err != nil {
		utils.GetLogger().Error("report render failed",
			zap.String("reportID", doc.Artifact.ID), zap.Error(err))
		return result, nil
	}

	name := fileName(providerID, doc.Artifact, format)
	path, err := s.Files.Save(name, data)
	if err != nil {
		utils.GetLogger().Error("report file write failed",
			zap.String("reportID", doc.Artifact.ID), zap.Error(err))
		return result, nil
	}

	expiresAt := s.now().Add(s.expiry())
	if err := s.Repo.SetFilePath(ctx, doc.Artifact.ID, path, expiresAt); err != nil {
		return nil, analytics.NewDataUnavailableError("recording report file path", err)
	}

	result.FilePath = path
	result.Size = int64(len(data))
	result.ExpiresAt = expiresAt
	return result, nil
}

// fileName is deterministic from the provider and generation timestamp so
// artifact storage stays reproducible and collision-free per second.
func fileName(providerID string, artifact models.ReportArtifact, format models.ReportFormat) string {
	return fmt.Sprintf("report_%s_%s_%s.%s",
		providerID,
		artifact.ReportType,
		artifact.GeneratedAt.Format("20060102_150405"),
		format)
}
