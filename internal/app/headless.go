package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"applierctl/internal/api"
	"applierctl/internal/config"
	"applierctl/internal/dashboard"
	"applierctl/internal/dom"
	"applierctl/internal/tui/model"
	"applierctl/pkg/logging"
)

// Report is the detail pane after a load, as the CLI prints it.
type Report struct {
	Selector dashboard.Selector
	State    string
	Detail   string
	Err      error
}

// ModuleSummary is one module row of the status page.
type ModuleSummary struct {
	Selector dashboard.Selector
	State    string
	Active   bool
}

// FollowOptions controls when Follow stops.
type FollowOptions struct {
	Hash string
	// Once stops after the first load.
	Once bool
	// UntilSettled stops at the first load that is not Running.
	UntilSettled bool
	// OnReport is called for every load.
	OnReport func(Report)
}

// RunOptions describes a one-shot force run.
type RunOptions struct {
	Selector dashboard.Selector
	PlanOnly bool
	LockID   string
	// Wait follows the module after the run was accepted until it was seen
	// Running and is no longer Running. A queued run is reloaded every poll
	// interval until it starts.
	Wait     bool
	OnReport func(Report)
}

// RunOutcome is the result of ForceRun.
type RunOutcome struct {
	Message string
	// Final is the last load seen while waiting.
	Final Report
}

// session drives a dashboard controller over an in-memory copy of the status
// page, without a terminal.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	doc    *dom.Document
	loop   *dashboard.EventLoop
	ctrl   *dashboard.Controller
}

func openSession(ctx context.Context, client model.StatusClient, opts dashboard.Options) (*session, error) {
	page, err := client.StatusPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status page: %w", err)
	}
	doc, err := dom.ParseString(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse status page: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	loop := dashboard.NewEventLoop(0)
	return &session{
		ctx:    ctx,
		cancel: cancel,
		doc:    doc,
		loop:   loop,
		ctrl:   dashboard.NewController(ctx, doc, client, loop, opts),
	}, nil
}

// run posts start and executes loop tasks until stop is called or the
// context ends.
func (s *session) run(start func()) error {
	defer s.cancel()
	s.loop.Post(start)

	g, gctx := errgroup.WithContext(s.ctx)
	g.Go(func() error {
		defer s.cancel()
		return s.loop.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.loop.Stop()
		return nil
	})
	return g.Wait()
}

func (s *session) stop() { s.loop.Stop() }

func (s *session) close() { s.cancel() }

func (s *session) report(res dashboard.LoadResult) Report {
	return Report{
		Selector: res.Selector,
		State:    res.State,
		Detail:   s.doc.TextOf(dashboard.DetailPaneSelector),
		Err:      res.Err,
	}
}

func (s *session) hasModule(sel dashboard.Selector) bool {
	return s.doc.Query(dashboard.IDSelector(sel.ListID())) != nil
}

// ListModules returns the module rows left visible by hash.
func ListModules(ctx context.Context, client model.StatusClient, hash string) ([]ModuleSummary, error) {
	s, err := openSession(ctx, client, dashboard.Options{})
	if err != nil {
		return nil, err
	}
	defer s.close()

	s.ctrl.Filter().Apply(dashboard.NormalizeHash(hash))

	var modules []ModuleSummary
	for _, row := range s.doc.QueryAll(dashboard.ModuleItemSelector) {
		if row.HasClass(dashboard.ClassHidden) {
			continue
		}
		key, _ := row.Attr(dashboard.AttrFilter)
		summary := ModuleSummary{
			Selector: dashboard.ParseSelector(key),
			Active:   row.HasClass(dashboard.ClassActive),
		}
		if el := row.Find(dashboard.ModuleStateSelector); el != nil {
			summary.State, _ = el.Attr(dashboard.AttrState)
		}
		modules = append(modules, summary)
	}
	return modules, nil
}

// Follow loads the module named by opts.Hash and keeps reloading it while it
// is Running. Without Once or UntilSettled it runs until ctx ends, which is
// not an error. It returns the last report.
func Follow(ctx context.Context, client model.StatusClient, dashOpts dashboard.Options, opts FollowOptions) (Report, error) {
	sel := dashboard.ParseSelector(opts.Hash)
	if !sel.HasModule() {
		return Report{}, fmt.Errorf("%q: %w", opts.Hash, api.ErrEmptySelector)
	}

	s, err := openSession(ctx, client, dashOpts)
	if err != nil {
		return Report{}, err
	}
	defer s.close()
	if !s.hasModule(sel) {
		return Report{}, fmt.Errorf("module %s not found on status page", sel)
	}

	var last Report
	s.ctrl.Loader().OnLoaded(func(res dashboard.LoadResult) {
		last = s.report(res)
		if opts.OnReport != nil {
			opts.OnReport(last)
		}
		switch {
		case res.Err != nil, opts.Once:
			s.stop()
		case opts.UntilSettled && res.State != api.StateRunning:
			s.stop()
		}
	})

	err = s.run(func() { s.ctrl.Init(sel.Key()) })
	if err != nil {
		if errors.Is(err, context.Canceled) && !opts.Once && !opts.UntilSettled {
			return last, nil
		}
		return last, err
	}
	if last.Err != nil {
		return last, fmt.Errorf("failed to load %s: %w", sel, last.Err)
	}
	return last, nil
}

// ForceRun clicks the plan or apply control of a module on a fresh copy of
// the status page and reports the outcome.
func ForceRun(ctx context.Context, client model.StatusClient, dashOpts dashboard.Options, opts RunOptions) (RunOutcome, error) {
	sel := opts.Selector
	if !sel.HasModule() {
		return RunOutcome{}, api.ErrEmptySelector
	}

	s, err := openSession(ctx, client, dashOpts)
	if err != nil {
		return RunOutcome{}, err
	}
	defer s.close()

	control := s.ctrl.Control(sel, opts.PlanOnly)
	if control == nil {
		return RunOutcome{}, fmt.Errorf("module %s not found on status page", sel)
	}
	s.ctrl.SetLockID(opts.LockID)

	interval := dashOpts.PollInterval
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	sched := dashboard.NewScheduler(dashOpts.Clock, s.loop)

	var (
		out     RunOutcome
		runErr  error
		clicked bool
		armed   bool
		started bool
		repoll  dashboard.Handle
	)
	defer func() {
		if repoll != nil {
			repoll.Cancel()
		}
	}()

	s.ctrl.Trigger().OnResult(func(res dashboard.RunResult) {
		if res.Err != nil {
			runErr = res.Err
			s.stop()
			return
		}
		out.Message = res.Message
		if !opts.Wait {
			s.stop()
			return
		}
		// The trigger reloads the pane once the refresh delay elapsed.
		armed = true
		logging.Info("CLI", "Run of %s accepted, waiting for it to finish", sel)
	})

	s.ctrl.Loader().OnLoaded(func(res dashboard.LoadResult) {
		rep := s.report(res)
		out.Final = rep
		if opts.OnReport != nil {
			opts.OnReport(rep)
		}
		switch {
		case res.Err != nil:
			runErr = fmt.Errorf("failed to load %s: %w", sel, res.Err)
			s.stop()
		case !clicked:
			// The pane is bound now, so the post-run refresh will reload it.
			clicked = true
			s.ctrl.Click(control)
		case !armed:
		case res.State == api.StateRunning:
			// the loader keeps polling a Running module on its own
			started = true
		case started:
			s.stop()
		default:
			// The applier only queues the run, so the module can still show
			// its previous state until a runner picks the request up.
			logging.Debug("CLI", "Run of %s still pending, checking again in %s", sel, interval)
			repoll = sched.After(interval, func() {
				repoll = nil
				s.ctrl.Loader().Reload(sel)
			})
		}
	})

	err = s.run(func() {
		if opts.Wait {
			s.ctrl.Init(sel.Key())
			return
		}
		clicked = true
		s.ctrl.Click(control)
	})
	if err != nil {
		return out, err
	}
	return out, runErr
}
