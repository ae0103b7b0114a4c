package app

import (
	"context"
	"fmt"

	"github.com/vk/playtraversal/internal/executor"
	"github.com/vk/playtraversal/internal/localsession"
)

// Run executes the prompt file with the local host.
func (a *App) Run(ctx context.Context) (*executor.Result, error) {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.")

	p, err := a.loadPrompt(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := (&localsession.SessionFactory{}).NewSession(ctx, p, a.registry)
	if err != nil {
		return nil, err
	}
	defer sess.Close(ctx)

	exec, err := sess.GetExecutor()
	if err != nil {
		return nil, err
	}

	a.logger.Info("🚀 Starting execution...", "nodes", len(p))
	res, err := exec.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.", "executed", len(res.Executed))
	return res, nil
}
