package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/email"
	"candidate-boutique/pkg/logger"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Listing checks whether a sync is due at most this often.
const opportunisticSyncEvery = time.Minute

type candidateUsecase struct {
	repo        domain.CandidateRepository
	contactRepo domain.ContactRequestRepository
	notifier    email.Notifier
	sync        domain.SyncUsecase
	adminEmail  string

	lastSyncCheck atomic.Int64
}

// NewCandidateUsecase wires recruiter browsing. sync may be nil to disable
// the background refresh on listing.
func NewCandidateUsecase(repo domain.CandidateRepository, contactRepo domain.ContactRequestRepository, notifier email.Notifier, sync domain.SyncUsecase, adminEmail string) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:        repo,
		contactRepo: contactRepo,
		notifier:    notifier,
		sync:        sync,
		adminEmail:  adminEmail,
	}
}

func (u *candidateUsecase) ListCandidates(ctx context.Context, filter domain.CandidateFilter) (domain.Page[domain.Candidate], error) {
	if _, err := requireUser(ctx); err != nil {
		return domain.Page[domain.Candidate]{}, err
	}

	u.refreshInBackground(ctx)

	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Candidate]{}, apperror.Internal(err)
	}
	return domain.NewPage(items, total, filter.Pagination), nil
}

// refreshInBackground starts a debounced SyncIfDue that outlives the request.
func (u *candidateUsecase) refreshInBackground(ctx context.Context) {
	if u.sync == nil {
		return
	}
	now := time.Now().UnixNano()
	last := u.lastSyncCheck.Load()
	if now-last < int64(opportunisticSyncEvery) || !u.lastSyncCheck.CompareAndSwap(last, now) {
		return
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		runCtx, cancel := context.WithTimeout(bg, 5*time.Minute)
		defer cancel()
		result, ran, err := u.sync.SyncIfDue(runCtx)
		if err != nil {
			logger.Log.Warn("Background candidate sync failed", "error", err)
			return
		}
		if ran && result != nil {
			logger.Log.Info("Background candidate sync completed", "message", result.Message)
		}
	}()
}

func (u *candidateUsecase) GetCandidate(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate not found")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (u *candidateUsecase) RequestContact(ctx context.Context, input domain.ContactRequestInput) (*domain.ContactRequest, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(input.CandidateIDs))
	seen := make(map[uuid.UUID]bool, len(input.CandidateIDs))
	for _, id := range input.CandidateIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, apperror.BadRequest("Select at least one candidate")
	}
	if len(ids) > domain.MaxContactRequests {
		return nil, apperror.BadRequest(fmt.Sprintf("You can request contact with at most %d candidates at once", domain.MaxContactRequests))
	}

	candidates, err := u.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(candidates) != len(ids) {
		return nil, apperror.NotFound("One or more candidates not found")
	}

	req := &domain.ContactRequest{
		RecruiterID:    actor.ID,
		RecruiterEmail: actor.Email,
		CandidateIDs:   ids,
		Message:        optional(input.Message),
	}
	if err := u.contactRepo.Create(ctx, req); err != nil {
		return nil, apperror.Internal(err)
	}

	u.notifyContactRequest(ctx, req, candidates)
	return req, nil
}

// notifyContactRequest emails the admin inbox and every guardian with their
// own candidates. Failures are logged only.
func (u *candidateUsecase) notifyContactRequest(ctx context.Context, req *domain.ContactRequest, candidates []domain.Candidate) {
	all := make([]email.ContactCandidate, 0, len(candidates))
	byGuardian := make(map[string][]email.ContactCandidate)
	var guardians []string
	for _, c := range candidates {
		entry := email.ContactCandidate{Name: c.FullName(), Role: deref(c.Role), Guardian: deref(c.Guardian)}
		all = append(all, entry)
		if addr := normalizeEmail(deref(c.GuardianEmail)); addr != "" {
			if _, ok := byGuardian[addr]; !ok {
				guardians = append(guardians, addr)
			}
			byGuardian[addr] = append(byGuardian[addr], entry)
		}
	}

	send := func(to string, list []email.ContactCandidate) {
		msg, err := email.ContactRequestMessage(to, email.ContactRequestData{
			RecruiterEmail: req.RecruiterEmail,
			Message:        deref(req.Message),
			Candidates:     list,
		})
		if err == nil {
			err = u.notifier.Send(ctx, msg)
		}
		if err != nil {
			logger.Log.Error("Failed to send contact request email",
				"contact_request_id", req.ID,
				"to", to,
				"error", err,
			)
		}
	}

	send(u.adminEmail, all)
	for _, addr := range guardians {
		send(addr, byGuardian[addr])
	}
}

func (u *candidateUsecase) ListMyContactRequests(ctx context.Context) ([]domain.ContactRequest, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	list, err := u.contactRepo.ListByRecruiter(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *candidateUsecase) UpdateCandidate(ctx context.Context, id uuid.UUID, patch domain.CandidatePatch) (*domain.Candidate, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, apperror.BadRequest("No fields to update")
	}
	c, err := u.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate not found")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

var exportColumns = []struct {
	header string
	width  float64
	value  func(c *domain.Candidate) any
}{
	{"Nr", 8, func(c *domain.Candidate) any { return deref(c.Nr) }},
	{"Imię", 16, func(c *domain.Candidate) any { return c.FirstName }},
	{"Nazwisko", 20, func(c *domain.Candidate) any { return deref(c.LastName) }},
	{"Rola", 28, func(c *domain.Candidate) any { return deref(c.Role) }},
	{"Seniority", 14, func(c *domain.Candidate) any { return deref(c.Seniority) }},
	{"Stawka", 14, func(c *domain.Candidate) any { return deref(c.Rate) }},
	{"Technologie", 40, func(c *domain.Candidate) any { return deref(c.Skills) }},
	{"Języki", 20, func(c *domain.Candidate) any { return deref(c.Languages) }},
	{"Dostępność", 16, func(c *domain.Candidate) any { return deref(c.Availability) }},
	{"Opiekun", 20, func(c *domain.Candidate) any { return deref(c.Guardian) }},
	{"Email opiekuna", 26, func(c *domain.Candidate) any { return deref(c.GuardianEmail) }},
	{"CV", 40, func(c *domain.Candidate) any { return deref(c.CV) }},
	{"Ostatnia synchronizacja", 22, func(c *domain.Candidate) any {
		if c.LastSyncedAt == nil {
			return ""
		}
		return c.LastSyncedAt.Format("2006-01-02 15:04")
	}},
}

func (u *candidateUsecase) ExportCandidates(ctx context.Context) (*domain.Export, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	candidates, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	data, err := buildCandidateWorkbook(candidates)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.Export{
		Filename:    fmt.Sprintf("candidates_%s.xlsx", time.Now().Format("20060102_150405")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func buildCandidateWorkbook(candidates []domain.Candidate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Kandydaci"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, err
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, colName, colName, col.width)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
	})
	if err != nil {
		return nil, err
	}
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err := f.SetCellStyle(sheetName, "A1", endCell, headerStyle); err != nil {
		return nil, err
	}

	for rowIdx := range candidates {
		for colIdx, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, col.value(&candidates[rowIdx])); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
