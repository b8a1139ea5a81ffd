package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusplan/studyplan/config"
	"github.com/campusplan/studyplan/core/model"
	"github.com/campusplan/studyplan/core/planner"
	"github.com/campusplan/studyplan/infra/store"
)

var (
	planUser  string
	planStart string
	planDays  int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a study plan for a user and print it as JSON",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planUser, "user", "u", "", "user identifier")
	planCmd.Flags().StringVarP(&planStart, "start", "s", "", "start date (YYYY-MM-DD, defaults to today)")
	planCmd.Flags().IntVarP(&planDays, "days", "d", 0, "horizon length in days")
	_ = planCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if planDays == 0 {
		planDays = cfg.Planner.DefaultHorizonDays
	}
	if planDays < 1 || planDays > cfg.Planner.MaxHorizonDays {
		return fmt.Errorf("days must be between 1 and %d", cfg.Planner.MaxHorizonDays)
	}

	start := time.Now().UTC()
	if planStart != "" {
		if start, err = time.Parse("2006-01-02", planStart); err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	avail, err := st.GetAvailability(ctx, planUser)
	if err != nil {
		return fmt.Errorf("get availability: %w", err)
	}
	all, err := st.ListTasks(ctx, planUser)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	var candidates []model.Task
	for _, t := range all {
		if t.Status == model.StatusActive && t.RemainingMinutes > 0 {
			candidates = append(candidates, t)
		}
	}

	plan := planner.New().Generate(candidates, avail, start, planDays)
	out := struct {
		UserID  string              `json:"userId"`
		Plan    model.Plan          `json:"plan"`
		Summary planner.PlanSummary `json:"summary"`
	}{planUser, plan, planner.Summarize(plan)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
