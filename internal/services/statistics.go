package services

import (
	"fmt"
	"strings"

	"github.com/ad/trustsphere/internal/catalog"
	"github.com/ad/trustsphere/internal/db"
	"github.com/ad/trustsphere/internal/models"
)

type ProgressStats struct {
	TotalUsers     int
	StartedUsers   int
	Completed      map[models.ModuleID]int
	FullyCompleted int
}

type StatisticsService struct {
	userRepo     *db.UserRepository
	progressRepo *db.ProgressRepository
}

func NewStatisticsService(userRepo *db.UserRepository, progressRepo *db.ProgressRepository) *StatisticsService {
	return &StatisticsService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
	}
}

func (s *StatisticsService) Calculate() (*ProgressStats, error) {
	total, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	records, err := s.progressRepo.GetAllRecords()
	if err != nil {
		return nil, fmt.Errorf("load progress records: %w", err)
	}

	stats := &ProgressStats{
		TotalUsers: total,
		Completed:  make(map[models.ModuleID]int, len(models.AllModules)),
	}
	for _, record := range records {
		if record.CompletedCount() == 0 {
			continue
		}
		stats.StartedUsers++
		for _, m := range models.AllModules {
			if record.IsComplete(m) {
				stats.Completed[m]++
			}
		}
		if record.AllComplete() {
			stats.FullyCompleted++
		}
	}
	return stats, nil
}

// FormatStats renders stats as plain text. Module titles come from c when it
// is non-nil.
func FormatStats(stats *ProgressStats, c *catalog.Catalog) string {
	var sb strings.Builder
	sb.WriteString("📊 TrustSphere statistics\n\n")
	sb.WriteString(fmt.Sprintf("Users: %d\n", stats.TotalUsers))
	sb.WriteString(fmt.Sprintf("With progress: %d\n", stats.StartedUsers))
	for _, m := range models.AllModules {
		title := fmt.Sprintf("Module %d", m)
		if c != nil {
			if module, ok := c.Module(m); ok {
				title = fmt.Sprintf("Module %d: %s", m, module.Title)
			}
		}
		sb.WriteString(fmt.Sprintf("%s: %d\n", title, stats.Completed[m]))
	}
	sb.WriteString(fmt.Sprintf("All modules: %d", stats.FullyCompleted))
	return sb.String()
}

type UserProgress struct {
	User   *models.User
	Record models.ProgressRecord
}

// UserProgress returns the stored user with their record.
func (s *StatisticsService) UserProgress(userID int64) (*UserProgress, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return &UserProgress{User: user, Record: s.progressRepo.StoreFor(userID).Load()}, nil
}

func (s *StatisticsService) AllUserProgress() ([]*UserProgress, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := make([]*UserProgress, 0, len(users))
	for _, user := range users {
		result = append(result, &UserProgress{User: user, Record: s.progressRepo.StoreFor(user.ID).Load()})
	}
	return result, nil
}

// FormatUserProgress renders a user and their module flags on one line, e.g.
// "Eve @eve [12]: ✅ ✅ ▫️ (2/3)".
func FormatUserProgress(p *UserProgress) string {
	marks := make([]string, 0, len(models.AllModules))
	for _, m := range models.AllModules {
		if p.Record.IsComplete(m) {
			marks = append(marks, "✅")
		} else {
			marks = append(marks, "▫️")
		}
	}
	return fmt.Sprintf("%s: %s (%d/%d)", p.User.DisplayName(), strings.Join(marks, " "),
		p.Record.CompletedCount(), len(models.AllModules))
}
