package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

type lessonReader interface {
	ListByBranch(ctx context.Context, branchID string) ([]models.Lesson, error)
	ListAssignmentsByBranch(ctx context.Context, branchID string) ([]models.TeacherLessonAssignment, error)
}

type teacherReader interface {
	ListByBranch(ctx context.Context, branchID string) ([]models.Teacher, error)
}

type teacherPreferenceReader interface {
	ListByBranch(ctx context.Context, branchID string) ([]models.TeacherPreference, error)
}

type roomReader interface {
	ListByBranch(ctx context.Context, branchID string) ([]models.Room, error)
	ListTypes(ctx context.Context) ([]models.RoomType, error)
}

type timetableRunRepository interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, run *models.TimetableRun) error
	ListByBranch(ctx context.Context, branchID string) ([]models.TimetableRun, error)
	FindByID(ctx context.Context, id string) (*models.TimetableRun, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type timetablePlacementRepository interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, placements []models.TimetablePlacement) error
	ListByRun(ctx context.Context, runID string) ([]models.TimetablePlacement, error)
	DeleteByRun(ctx context.Context, exec sqlx.ExtContext, runID string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type timetableOptimizer interface {
	Run(ctx context.Context, raw scheduler.RawInput, grid scheduler.GridConfig, numAttempts int, seed int64) *scheduler.BestResult
}

type timetableRenderer interface {
	Render(format export.Format, doc export.Document) ([]byte, error)
}

// TimetableServiceConfig governs generation defaults.
type TimetableServiceConfig struct {
	DefaultAttempts int
	MaxAttempts     int
	Grid            scheduler.GridConfig
	CacheTTL        time.Duration
}

// TimetableService gathers branch data, runs the optimizer and stores versioned results.
type TimetableService struct {
	lessons     lessonReader
	teachers    teacherReader
	prefs       teacherPreferenceReader
	rooms       roomReader
	runs        timetableRunRepository
	placements  timetablePlacementRepository
	tx          txProvider
	optimizer   timetableOptimizer
	renderer    timetableRenderer
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         TimetableServiceConfig
	seedFactory func() int64
}

// NewTimetableService wires timetable dependencies. cache, metrics, validate and logger may be nil.
func NewTimetableService(
	lessons lessonReader,
	teachers teacherReader,
	prefs teacherPreferenceReader,
	rooms roomReader,
	runs timetableRunRepository,
	placements timetablePlacementRepository,
	tx txProvider,
	optimizer timetableOptimizer,
	renderer timetableRenderer,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewExporter()
	}
	if cfg.MaxAttempts <= 0 || cfg.MaxAttempts > scheduler.MaxAttempts {
		cfg.MaxAttempts = scheduler.MaxAttempts
	}
	if cfg.DefaultAttempts <= 0 || cfg.DefaultAttempts > cfg.MaxAttempts {
		cfg.DefaultAttempts = cfg.MaxAttempts
	}
	if cfg.Grid.DaysPerWeek == 0 {
		cfg.Grid.DaysPerWeek = scheduler.DefaultDaysPerWeek
	}
	if cfg.Grid.HoursPerDay == 0 {
		cfg.Grid.HoursPerDay = scheduler.DefaultHoursPerDay
	}
	if cfg.Grid.MultiResourceRooms == 0 {
		cfg.Grid.MultiResourceRooms = scheduler.DefaultMultiResourceRooms
	}
	return &TimetableService{
		lessons:     lessons,
		teachers:    teachers,
		prefs:       prefs,
		rooms:       rooms,
		runs:        runs,
		placements:  placements,
		tx:          tx,
		optimizer:   optimizer,
		renderer:    renderer,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		seedFactory: func() int64 { return time.Now().UnixNano() },
	}
}

// Generate runs the multi-start optimizer for a branch and stores the outcome as a new version.
// Runs rejected by integrity checks are stored as FAILED and reported as ErrDataIntegrity.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	attempts := req.Attempts
	if attempts == 0 {
		attempts = s.cfg.DefaultAttempts
	}
	if attempts > s.cfg.MaxAttempts {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("attempts must be between 1 and %d", s.cfg.MaxAttempts))
	}
	seed := s.seedFactory()
	if req.Seed != nil {
		seed = *req.Seed
	}

	raw, err := s.loadRawInput(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := s.optimizer.Run(ctx, raw, s.cfg.Grid, attempts, seed)
	elapsed := time.Since(start)

	logger := s.logger.With(zap.String("branch_id", req.BranchID), zap.Int("attempts", attempts), zap.Int64("seed", seed))

	var (
		integrity *scheduler.DataIntegrityError
		engine    *scheduler.EngineFailureError
	)
	switch {
	case result.Success:
		run, err := s.persist(ctx, req.BranchID, result)
		if err != nil {
			return nil, err
		}
		s.metrics.ObserveTimetableRun(RunOutcomeSucceeded, result.Attempts, elapsed, result.TotalUnassignedHours, result.FitnessScore)
		logger.Info("timetable generated",
			zap.String("run_id", run.ID),
			zap.Int("version", run.Version),
			zap.Float64("fitness", result.FitnessScore),
			zap.Int("unassigned_hours", result.TotalUnassignedHours),
			zap.Duration("elapsed", elapsed))

		resp := s.buildResponse(run, result.Schedule, result.UnassignedLessons, nil, result.Logs, result.AttemptIndex)
		s.cache.Set(ctx, runCacheKey(run.ID), resp, s.cfg.CacheTTL)
		s.cache.Invalidate(ctx, branchCacheKey(req.BranchID))
		return resp, nil

	case errors.As(result.Error, &integrity):
		run, err := s.persist(ctx, req.BranchID, result)
		if err != nil {
			return nil, err
		}
		s.metrics.ObserveTimetableRun(RunOutcomeIntegrity, 0, elapsed, 0, 0)
		s.cache.Invalidate(ctx, branchCacheKey(req.BranchID))
		logger.Warn("timetable input failed integrity checks", zap.String("run_id", run.ID), zap.Int("issues", len(integrity.Issues)))
		return nil, appErrors.WithDetails(appErrors.ErrDataIntegrity, result.Error, map[string]interface{}{
			"runId":  run.ID,
			"issues": integrity.Issues,
		})

	case errors.As(result.Error, &engine):
		run, err := s.persist(ctx, req.BranchID, result)
		if err != nil {
			return nil, err
		}
		s.metrics.ObserveTimetableRun(RunOutcomeEngineFailure, result.Attempts, elapsed, 0, 0)
		s.cache.Invalidate(ctx, branchCacheKey(req.BranchID))
		logger.Error("timetable engine failure", zap.String("run_id", run.ID), zap.Error(result.Error))
		return nil, appErrors.WithDetails(appErrors.ErrEngineFailure, result.Error, map[string]interface{}{
			"runId":   run.ID,
			"attempt": engine.Attempt,
		})

	case errors.Is(result.Error, context.Canceled), errors.Is(result.Error, context.DeadlineExceeded):
		s.metrics.ObserveTimetableRun(RunOutcomeCancelled, 0, elapsed, 0, 0)
		logger.Warn("timetable generation cancelled", zap.Error(result.Error))
		return nil, appErrors.Wrap(result.Error, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "timetable generation cancelled before any attempt completed")

	default:
		logger.Error("timetable generation failed", zap.Error(result.Error))
		return nil, appErrors.Wrap(result.Error, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable generation failed")
	}
}

// List returns stored runs of a branch, newest first. The boolean reports a cache hit.
func (s *TimetableService) List(ctx context.Context, branchID string) ([]dto.TimetableSummary, bool, error) {
	if strings.TrimSpace(branchID) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "branchId is required")
	}
	var cached []dto.TimetableSummary
	if s.cache.Get(ctx, branchCacheKey(branchID), &cached) {
		return cached, true, nil
	}
	runs, err := s.runs.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable runs")
	}
	summaries := make([]dto.TimetableSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, dto.TimetableSummary{
			ID:                   run.ID,
			BranchID:             run.BranchID,
			Version:              run.Version,
			Status:               string(run.Status),
			Attempts:             run.Attempts,
			Seed:                 run.Seed,
			FitnessScore:         run.FitnessScore,
			TotalUnassignedHours: run.UnassignedHours,
			CreatedAt:            run.CreatedAt,
		})
	}
	s.cache.Set(ctx, branchCacheKey(branchID), summaries, s.cfg.CacheTTL)
	return summaries, false, nil
}

// Get returns a stored run with its schedule. The boolean reports a cache hit.
func (s *TimetableService) Get(ctx context.Context, id string) (*dto.TimetableResponse, bool, error) {
	if strings.TrimSpace(id) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}
	var cached dto.TimetableResponse
	if s.cache.Get(ctx, runCacheKey(id), &cached) {
		return &cached, true, nil
	}

	run, err := s.findRun(ctx, id)
	if err != nil {
		return nil, false, err
	}
	stored, err := s.placements.ListByRun(ctx, id)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable placements")
	}

	var meta models.TimetableRunMeta
	if len(run.Meta) > 0 {
		if err := json.Unmarshal(run.Meta, &meta); err != nil {
			s.logger.Warn("ignoring undecodable timetable run meta", zap.String("run_id", id), zap.Error(err))
		}
	}

	schedule := make(scheduler.Schedule, len(stored))
	for _, p := range stored {
		placement := scheduler.Placement{
			LessonID:   p.LessonID,
			LessonName: p.LessonName,
			ClassID:    p.ClassID,
			Day:        p.Day,
			Period:     p.Period,
			TeacherID:  p.TeacherID,
		}
		if len(p.RoomIDs) > 0 {
			placement.RoomIDs = []string(p.RoomIDs)
		}
		schedule[placement.Key()] = placement
	}
	unassigned := make([]scheduler.UnassignedRemainder, 0, len(meta.UnassignedLessons))
	for _, u := range meta.UnassignedLessons {
		unassigned = append(unassigned, scheduler.UnassignedRemainder{LessonID: u.LessonID, LessonName: u.LessonName, RemainingHours: u.RemainingHours})
	}
	issues := make([]scheduler.IntegrityIssue, 0, len(meta.Issues))
	for _, issue := range meta.Issues {
		issues = append(issues, scheduler.IntegrityIssue{Entity: issue.Entity, EntityID: issue.EntityID, Name: issue.Name, Reason: issue.Reason})
	}

	resp := s.buildResponse(run, schedule, unassigned, issues, meta.Logs, meta.AttemptIndex)
	if meta.DaysPerWeek > 0 {
		resp.DaysPerWeek = meta.DaysPerWeek
		resp.HoursPerDay = meta.HoursPerDay
	}
	s.cache.Set(ctx, runCacheKey(id), resp, s.cfg.CacheTTL)
	return resp, false, nil
}

// Delete removes a stored run and its placements.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	run, err := s.findRun(ctx, id)
	if err != nil {
		return err
	}
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.placements.DeleteByRun(ctx, tx, id); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable placements")
		return err
	}
	if err = s.runs.Delete(ctx, tx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
			return err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable run")
		return err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable deletion")
		return err
	}

	s.cache.Invalidate(ctx, runCacheKey(id), branchCacheKey(run.BranchID))
	s.logger.Info("timetable deleted", zap.String("run_id", id), zap.String("branch_id", run.BranchID), zap.Int("version", run.Version))
	return nil
}

// Export renders a successful run as a CSV or PDF download.
func (s *TimetableService) Export(ctx context.Context, id, rawFormat string) (*dto.TimetableExport, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	timetable, _, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !timetable.Success {
		return nil, appErrors.Clone(appErrors.ErrConflict, "failed runs have no timetable to export")
	}

	data := export.Dataset{Headers: []string{"Day", "Period", "Class", "Lesson", "Teacher", "Rooms"}}
	for _, entry := range timetable.Schedule {
		p := entry.Placement
		lesson := p.LessonName
		if lesson == "" {
			lesson = p.LessonID
		}
		data.Rows = append(data.Rows, []string{
			dayIndexToName(p.Day),
			strconv.Itoa(p.Period),
			p.ClassID,
			lesson,
			p.TeacherID,
			strings.Join(p.RoomIDs, " "),
		})
	}
	doc := export.Document{
		Title: "Timetable",
		Subtitle: []string{
			fmt.Sprintf("Branch %s, version %d", timetable.BranchID, timetable.Version),
			fmt.Sprintf("Fitness %.2f, unassigned hours %d, gaps %d", timetable.FitnessScore, timetable.TotalUnassignedHours, timetable.TotalGaps),
		},
		Data: data,
	}
	payload, err := s.renderer.Render(format, doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable export")
	}
	return &dto.TimetableExport{
		Filename:    fmt.Sprintf("timetable-%s-v%d.%s", timetable.BranchID, timetable.Version, format.Extension()),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *TimetableService) findRun(ctx context.Context, id string) (*models.TimetableRun, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable run")
	}
	return run, nil
}

func (s *TimetableService) loadRawInput(ctx context.Context, branchID string) (scheduler.RawInput, error) {
	var raw scheduler.RawInput
	wrap := func(err error, what string) error {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+what)
	}

	lessons, err := s.lessons.ListByBranch(ctx, branchID)
	if err != nil {
		return raw, wrap(err, "lessons")
	}
	assignments, err := s.lessons.ListAssignmentsByBranch(ctx, branchID)
	if err != nil {
		return raw, wrap(err, "teacher assignments")
	}
	teachers, err := s.teachers.ListByBranch(ctx, branchID)
	if err != nil {
		return raw, wrap(err, "teachers")
	}
	var prefs []models.TeacherPreference
	if s.prefs != nil {
		if prefs, err = s.prefs.ListByBranch(ctx, branchID); err != nil {
			return raw, wrap(err, "teacher preferences")
		}
	}
	rooms, err := s.rooms.ListByBranch(ctx, branchID)
	if err != nil {
		return raw, wrap(err, "rooms")
	}
	roomTypes, err := s.rooms.ListTypes(ctx)
	if err != nil {
		return raw, wrap(err, "room types")
	}

	for _, l := range lessons {
		raw.Lessons = append(raw.Lessons, scheduler.RawLesson{
			ID:                        l.ID,
			Name:                      l.Name,
			ClassID:                   l.ClassID,
			WeeklyHours:               l.WeeklyHours,
			Splittable:                l.Splittable,
			IncludeInSchedule:         l.IncludeInSchedule,
			RequiresMultipleResources: l.RequiresMultipleResources,
			SuitableRoomTypeIDs:       []string(l.SuitableRoomTypeIDs),
		})
	}
	for _, a := range assignments {
		raw.Assignments = append(raw.Assignments, scheduler.RawAssignment{LessonID: a.LessonID, TeacherID: a.TeacherID})
	}

	caps := make(map[string]models.TeacherPreference, len(prefs))
	for _, pref := range prefs {
		caps[pref.TeacherID] = pref
		raw.Unavailability = append(raw.Unavailability, s.expandUnavailable(pref)...)
	}
	for _, t := range teachers {
		pref := caps[t.ID]
		raw.Teachers = append(raw.Teachers, scheduler.RawTeacher{
			ID:             t.ID,
			Name:           t.FullName,
			MaxLoadPerDay:  pref.MaxLoadPerDay,
			MaxLoadPerWeek: pref.MaxLoadPerWeek,
		})
	}
	for _, r := range rooms {
		raw.Rooms = append(raw.Rooms, scheduler.RawRoom{ID: r.ID, Name: r.Name, RoomTypeID: r.RoomTypeID, Capacity: r.Capacity})
	}
	for _, rt := range roomTypes {
		raw.RoomTypes = append(raw.RoomTypes, scheduler.RawRoomType{ID: rt.ID, Name: rt.Name})
	}
	return raw, nil
}

// expandUnavailable turns stored {"MONDAY", "1-3"} windows into per-period blocks.
func (s *TimetableService) expandUnavailable(pref models.TeacherPreference) []scheduler.RawUnavailability {
	if len(pref.Unavailable) == 0 {
		return nil
	}
	var windows []models.TeacherUnavailableSlot
	if err := json.Unmarshal(pref.Unavailable, &windows); err != nil {
		s.logger.Warn("ignoring malformed unavailability", zap.String("teacher_id", pref.TeacherID), zap.Error(err))
		return nil
	}
	var (
		out     []scheduler.RawUnavailability
		clipped []string
	)
	for _, window := range windows {
		day := dayStringToIndex(window.DayOfWeek)
		if day == 0 {
			continue
		}
		periods, cut := expandTimeRange(window.TimeRange, s.cfg.Grid.HoursPerDay)
		if cut {
			clipped = append(clipped, window.DayOfWeek+" "+window.TimeRange)
		}
		for _, period := range periods {
			out = append(out, scheduler.RawUnavailability{TeacherID: pref.TeacherID, Day: day, Period: period})
		}
	}
	if len(clipped) > 0 {
		s.logger.Warn("unavailability clipped to the grid",
			zap.String("teacher_id", pref.TeacherID),
			zap.Int("hours_per_day", s.cfg.Grid.HoursPerDay),
			zap.Strings("windows", clipped),
		)
	}
	return out
}

func (s *TimetableService) persist(ctx context.Context, branchID string, result *scheduler.BestResult) (run *models.TimetableRun, err error) {
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	meta := models.TimetableRunMeta{
		AttemptIndex:      result.AttemptIndex,
		DaysPerWeek:       s.cfg.Grid.DaysPerWeek,
		HoursPerDay:       s.cfg.Grid.HoursPerDay,
		UnassignedLessons: make([]models.TimetableUnassigned, 0, len(result.UnassignedLessons)),
		Logs:              result.Logs,
	}
	for _, u := range result.UnassignedLessons {
		meta.UnassignedLessons = append(meta.UnassignedLessons, models.TimetableUnassigned{LessonID: u.LessonID, LessonName: u.LessonName, RemainingHours: u.RemainingHours})
	}
	var integrity *scheduler.DataIntegrityError
	if errors.As(result.Error, &integrity) {
		for _, issue := range integrity.Issues {
			meta.Issues = append(meta.Issues, models.TimetableIntegrityIssue{Entity: issue.Entity, EntityID: issue.EntityID, Name: issue.Name, Reason: issue.Reason})
		}
	}
	metaBytes, marshalErr := json.Marshal(meta)
	if marshalErr != nil {
		return nil, appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable metadata")
	}

	status := models.TimetableRunStatusSucceeded
	if !result.Success {
		status = models.TimetableRunStatusFailed
	}
	run = &models.TimetableRun{
		BranchID:         branchID,
		Status:           status,
		Attempts:         result.Attempts,
		Seed:             result.Seed,
		FitnessScore:     result.FitnessScore,
		WorkloadVariance: result.WorkloadVariance,
		TotalGaps:        result.TotalGaps,
		UnassignedHours:  result.TotalUnassignedHours,
		Meta:             types.JSONText(metaBytes),
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.runs.CreateVersioned(ctx, tx, run); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable run")
		return nil, err
	}

	sorted := result.Schedule.Sorted()
	rows := make([]models.TimetablePlacement, 0, len(sorted))
	for _, p := range sorted {
		rows = append(rows, models.TimetablePlacement{
			RunID:     run.ID,
			Day:       p.Day,
			Period:    p.Period,
			LessonID:  p.LessonID,
			ClassID:   p.ClassID,
			TeacherID: p.TeacherID,
			RoomIDs:   p.RoomIDs,
		})
	}
	if err = s.placements.InsertBatch(ctx, tx, rows); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable placements")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable transaction")
		return nil, err
	}
	return run, nil
}

func (s *TimetableService) buildResponse(
	run *models.TimetableRun,
	schedule scheduler.Schedule,
	unassigned []scheduler.UnassignedRemainder,
	issues []scheduler.IntegrityIssue,
	logs []string,
	attemptIndex int,
) *dto.TimetableResponse {
	if unassigned == nil {
		unassigned = []scheduler.UnassignedRemainder{}
	}
	if logs == nil {
		logs = []string{}
	}
	if len(issues) == 0 {
		issues = nil
	}
	return &dto.TimetableResponse{
		ID:                   run.ID,
		BranchID:             run.BranchID,
		Version:              run.Version,
		Status:               string(run.Status),
		Success:              run.Status == models.TimetableRunStatusSucceeded,
		Attempts:             run.Attempts,
		Seed:                 run.Seed,
		AttemptIndex:         attemptIndex,
		FitnessScore:         run.FitnessScore,
		WorkloadVariance:     run.WorkloadVariance,
		TotalGaps:            run.TotalGaps,
		TotalUnassignedHours: run.UnassignedHours,
		DaysPerWeek:          s.cfg.Grid.DaysPerWeek,
		HoursPerDay:          s.cfg.Grid.HoursPerDay,
		Schedule:             dto.NewScheduleEntries(schedule),
		UnassignedLessons:    unassigned,
		Issues:               issues,
		Logs:                 logs,
		CreatedAt:            run.CreatedAt,
	}
}

func runCacheKey(id string) string {
	return "timetable:run:" + id
}

func branchCacheKey(branchID string) string {
	return "timetable:branch:" + branchID
}

// expandTimeRange parses "3" or "1-4" into the covered periods, never past maxPeriod. clipped
// reports that part of the range fell beyond maxPeriod and was dropped.
func expandTimeRange(raw string, maxPeriod int) (periods []int, clipped bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	start, end := 0, 0
	if strings.Contains(raw, "-") {
		parts := strings.SplitN(raw, "-", 2)
		start = parsePeriod(parts[0])
		end = parsePeriod(parts[1])
		if start == 0 || end == 0 || end < start {
			return nil, false
		}
	} else {
		start = parsePeriod(raw)
		if start == 0 {
			return nil, false
		}
		end = start
	}
	if end > maxPeriod {
		end = maxPeriod
		clipped = true
	}
	if start > end {
		return nil, clipped
	}
	periods = make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		periods = append(periods, i)
	}
	return periods, clipped
}

func parsePeriod(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

var dayIndexMap = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
	6: "SATURDAY",
	7: "SUNDAY",
}

var dayNameIndex = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

func dayIndexToName(day int) string {
	if name, ok := dayIndexMap[day]; ok {
		return name
	}
	return strconv.Itoa(day)
}

// dayStringToIndex accepts day names ("monday") or 1-based numbers ("1").
func dayStringToIndex(name string) int {
	name = strings.ToUpper(strings.TrimSpace(name))
	if day, ok := dayNameIndex[name]; ok {
		return day
	}
	if day, err := strconv.Atoi(name); err == nil && day >= 1 && day <= 7 {
		return day
	}
	return 0
}
