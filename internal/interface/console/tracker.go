// Package console implements the interactive grade tracker: a numbered menu
// read line by line from an input stream, driving one gradebook.Registry.
package console

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/alem-hub/gradebook/internal/application/command"
	"github.com/alem-hub/gradebook/internal/application/query"
	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATE MACHINE
// ══════════════════════════════════════════════════════════════════════════════

// State is the tracker's position in the menu loop.
type State int

const (
	StateMainMenu State = iota
	StateExited
)

func (s State) String() string {
	switch s {
	case StateMainMenu:
		return "main_menu"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Menu choices.
const (
	ChoiceAddStudent = "1"
	ChoiceAddGrades  = "2"
	ChoiceReport     = "3"
	ChoiceBest       = "4"
	ChoiceExit       = "5"
)

const (
	choicePrompt  = "Enter your choice: "
	namePrompt    = "Input the name of the new student: "
	studentPrompt = "Add grades for a student: "
)

// ══════════════════════════════════════════════════════════════════════════════
// TRACKER
// ══════════════════════════════════════════════════════════════════════════════

// Config controls presentation.
type Config struct {
	// Color enables lipgloss styling. Ignored when the output is not a terminal.
	Color bool
}

// Dependencies are the collaborators a Tracker needs.
type Dependencies struct {
	// Registry is required and owned by the tracker for its lifetime.
	Registry *gradebook.Registry

	// Publisher receives domain events. Optional.
	Publisher shared.EventPublisher

	// Logger receives diagnostics, never user-facing output. Optional.
	Logger *logger.Logger

	Input  io.Reader
	Output io.Writer
}

// Tracker runs the menu loop. It is not safe for concurrent use.
type Tracker struct {
	registry *gradebook.Registry

	register *command.RegisterStudentHandler
	record   *command.RecordGradesHandler
	report   *query.GenerateReportHandler
	best     *query.FindBestStudentHandler

	in    *lineReader
	view  *Presenter
	log   *logger.Logger
	state State
}

// NewTracker wires the handlers around deps.Registry.
func NewTracker(cfg Config, deps Dependencies) *Tracker {
	if deps.Registry == nil {
		deps.Registry = gradebook.NewRegistry()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Output == nil {
		deps.Output = io.Discard
	}
	if deps.Input == nil {
		deps.Input = strings.NewReader("")
	}

	view := NewPresenter(deps.Output, cfg.Color)

	return &Tracker{
		registry: deps.Registry,
		register: command.NewRegisterStudentHandler(deps.Registry, deps.Publisher),
		record:   command.NewRecordGradesHandler(deps.Registry, deps.Publisher),
		report:   query.NewGenerateReportHandler(deps.Registry),
		best:     query.NewFindBestStudentHandler(deps.Registry),
		in:       newLineReader(deps.Input, view),
		view:     view,
		log:      deps.Logger.With(logger.Component("tracker")),
		state:    StateMainMenu,
	}
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Registry returns the registry the tracker drives.
func (t *Tracker) Registry() *gradebook.Registry {
	return t.registry
}

// Run shows the menu and dispatches choices until the exit choice is made or
// the input is exhausted.
func (t *Tracker) Run(ctx context.Context) error {
	t.log.Debug("tracker started")

	for t.state != StateExited {
		t.view.Menu()

		choice, err := t.in.ReadLine(ctx, choicePrompt)
		if err != nil {
			return t.stopOnInput(err)
		}
		t.view.ChoiceDivider()

		if _, err := t.Step(ctx, choice); err != nil {
			return t.stopOnInput(err)
		}
	}

	t.log.Debug("tracker exited", logger.Int("students", t.registry.Len()))
	return nil
}

func (t *Tracker) stopOnInput(err error) error {
	if errors.Is(err, io.EOF) {
		t.log.Debug("input closed", logger.Int("students", t.registry.Len()))
		return nil
	}
	return err
}

// Step performs one menu choice. The returned error is only ever an input
// failure; domain outcomes are reported to the output.
func (t *Tracker) Step(ctx context.Context, choice string) (State, error) {
	if t.state == StateExited {
		return t.state, nil
	}

	var err error
	switch strings.TrimSpace(choice) {
	case ChoiceAddStudent:
		err = t.addStudent(ctx)
	case ChoiceAddGrades:
		err = t.addGrades(ctx)
	case ChoiceReport:
		t.showReport(ctx)
	case ChoiceBest:
		t.showBest(ctx)
	case ChoiceExit:
		t.view.Info("Exiting program.")
		t.state = StateExited
	default:
		t.view.Error("Invalid option!")
	}

	return t.state, err
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTIONS
// ══════════════════════════════════════════════════════════════════════════════

func (t *Tracker) addStudent(ctx context.Context) error {
	raw, err := t.in.ReadLine(ctx, namePrompt)
	if err != nil {
		return err
	}

	res, err := t.register.Handle(ctx, command.RegisterStudentCommand{
		Name:          raw,
		CorrelationID: uuid.NewString(),
	})
	if err != nil {
		t.reportRegisterError(raw, err)
		return nil
	}

	t.log.Debug("student registered", logger.StudentID(res.StudentID), logger.StudentKey(res.Key))
	t.view.Success("Student %s added!", res.Name)
	return nil
}

func (t *Tracker) reportRegisterError(raw string, err error) {
	switch {
	case errors.Is(err, shared.ErrEmptyName):
		t.view.Error("The name can't be empty!")
	case errors.Is(err, shared.ErrNameHasDigits):
		t.view.Error("The name must not contain numbers!")
	case errors.Is(err, shared.ErrNameInvalidChars):
		t.view.Error("The name contains invalid characters!")
	case errors.Is(err, shared.ErrDuplicateStudent):
		name := strings.TrimSpace(raw)
		if n, perr := student.ParseName(raw); perr == nil {
			name = n.String()
		}
		t.view.Warning("Student %s already exist!", name)
	default:
		t.log.Error("register failed", logger.Err(err))
		t.view.Error("%v", err)
	}
}

func (t *Tracker) addGrades(ctx context.Context) error {
	raw, err := t.in.ReadLine(ctx, studentPrompt)
	if err != nil {
		return err
	}

	res, err := t.record.Handle(ctx, command.RecordGradesCommand{
		StudentKey:    raw,
		Source:        t.in.gradeTokens(),
		OnEntry:       t.reportGradeEntry,
		CorrelationID: uuid.NewString(),
	})
	if errors.Is(err, shared.ErrStudentNotFound) {
		t.view.Error("Student %s not exist!", raw)
		return nil
	}
	if err != nil {
		return err
	}

	t.log.Debug("grades recorded",
		logger.StudentID(res.StudentID),
		logger.Int("accepted", len(res.Accepted)),
		logger.Int("rejected", res.Rejected),
	)
	t.view.Info("The input of ratings is completed")
	return nil
}

func (t *Tracker) reportGradeEntry(e command.GradeEntry) {
	switch {
	case e.Accepted():
		t.view.Success("Grade %s added for %s", e.Grade, e.StudentName)
	case errors.Is(e.Err, shared.ErrOutOfRange):
		t.view.Warning("The grade must be between 0 and 100!")
	default:
		t.view.Error("Invalid input. Please enter a number.")
	}
}

func (t *Tracker) showReport(ctx context.Context) {
	report := t.report.Handle(ctx, query.GenerateReportQuery{})
	t.log.Debug("report generated", logger.String("outcome", report.Outcome.String()))
	t.view.Report(report)
}

func (t *Tracker) showBest(ctx context.Context) {
	best, err := t.best.Handle(ctx, query.FindBestStudentQuery{})
	switch {
	case errors.Is(err, shared.ErrNoStudents):
		t.view.Warning("There are no students yet!")
	case errors.Is(err, shared.ErrNoGradesRecorded):
		t.view.Warning("There are no grades in the list of students!")
	case err != nil:
		t.log.Error("find best failed", logger.Err(err))
		t.view.Error("%v", err)
	default:
		t.view.Best(best)
	}
}

// Import loads a roster from src into the registry before the loop starts.
func (t *Tracker) Import(ctx context.Context, src gradebook.RosterSource) (gradebook.ImportResult, error) {
	entries, err := src.LoadRoster(ctx)
	if err != nil {
		return gradebook.ImportResult{}, err
	}

	res := t.registry.Import(entries)
	t.log.Info("roster imported",
		logger.Int("registered", res.Registered),
		logger.Int("grades", res.Grades),
		logger.Int("skipped", len(res.Skipped)),
	)
	t.view.Info("Imported %d students with %d grades.", res.Registered, res.Grades)
	return res, nil
}
