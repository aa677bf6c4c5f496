// Command trainer fits per-role performance models from a training corpus
// and writes the serving artifacts (model files, baselines, metadata) to an
// output directory. The corpus comes from a collector JSON file or straight
// from the ClickHouse training_samples table.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/riftrewind/scoring-api/internal/logic"
	"github.com/riftrewind/scoring-api/internal/mlstore"
	"github.com/riftrewind/scoring-api/internal/models"
)

func main() {
	var (
		input        = flag.String("input", "", "path to a collector corpus JSON file")
		fromCH       = flag.Bool("from-clickhouse", false, "read the corpus from ClickHouse (CLICKHOUSE_URL)")
		outputDir    = flag.String("output-dir", "./models", "directory for model artifacts")
		register     = flag.Bool("register", false, "record trained versions in Postgres (POSTGRES_URL)")
		minSamples   = flag.Int("min-samples", 100, "minimum samples per role")
		seed         = flag.Int64("seed", 42, "train/test split seed")
		testFraction = flag.Float64("test-fraction", 0.2, "held-out fraction per role")
		lambda       = flag.Float64("lambda", 1.0, "ridge regularization strength")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := run(context.Background(), sugar, runOptions{
		input:        *input,
		fromCH:       *fromCH,
		outputDir:    *outputDir,
		register:     *register,
		minSamples:   *minSamples,
		seed:         *seed,
		testFraction: *testFraction,
		lambda:       *lambda,
	}); err != nil {
		sugar.Fatalw("Training failed", "error", err)
	}
}

type runOptions struct {
	input        string
	fromCH       bool
	outputDir    string
	register     bool
	minSamples   int
	seed         int64
	testFraction float64
	lambda       float64
}

func run(ctx context.Context, logger *zap.SugaredLogger, opts runOptions) error {
	corpus, err := loadCorpus(ctx, logger, opts)
	if err != nil {
		return err
	}
	logger.Infow("Corpus loaded",
		"samples", len(corpus.Samples), "matches", corpus.NumMatches, "collected", corpus.CollectionDate)

	scorer := logic.NewScorer(logic.DefaultScorerConfig())
	trainer := logic.NewTrainer(logic.TrainerConfig{
		MinSamplesPerRole: opts.minSamples,
		TestFraction:      opts.testFraction,
		Seed:              opts.seed,
		RidgeLambda:       opts.lambda,
	}, scorer, logger)

	result, err := trainer.Train(ctx, corpus.Samples)
	if err != nil {
		return err
	}
	if len(result.Roles) == 0 {
		return fmt.Errorf("no role reached the %d-sample minimum", opts.minSamples)
	}

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return err
	}
	store := mlstore.NewFSStore(opts.outputDir)

	baselines := make(map[models.Role]*models.RoleBaseline, len(result.Roles))
	meta := &models.ModelArtifactMeta{
		TrainingDate:   time.Now().UTC(),
		NumSamples:     len(corpus.Samples),
		NumMatches:     corpus.NumMatches,
		FeatureColumns: models.FeatureColumns,
		Metrics:        make(map[models.Role]models.EvaluationMetrics, len(result.Roles)),
	}

	for role, trained := range result.Roles {
		if err := store.SaveModel(ctx, trained.Model); err != nil {
			return fmt.Errorf("saving %s model: %w", role, err)
		}
		baselines[role] = trained.Baseline
		meta.Roles = append(meta.Roles, role)
		meta.Metrics[role] = trained.Metrics
	}
	if err := store.SaveBaselines(ctx, baselines); err != nil {
		return err
	}
	if err := store.SaveMetadata(ctx, meta); err != nil {
		return err
	}

	for role, skipErr := range result.Skipped {
		logger.Warnw("Role skipped", "role", role, "reason", skipErr)
	}
	logger.Infow("Artifacts written", "dir", opts.outputDir, "roles", len(result.Roles))

	if opts.register {
		if err := registerVersions(ctx, logger, opts.outputDir, result); err != nil {
			return err
		}
	}

	return nil
}

func loadCorpus(ctx context.Context, logger *zap.SugaredLogger, opts runOptions) (*models.TrainingCorpus, error) {
	switch {
	case opts.input != "" && opts.fromCH:
		return nil, fmt.Errorf("-input and -from-clickhouse are mutually exclusive")
	case opts.input != "":
		return loadCorpusFile(opts.input)
	case opts.fromCH:
		return loadCorpusClickHouse(ctx, logger)
	default:
		return nil, fmt.Errorf("one of -input or -from-clickhouse is required")
	}
}

func loadCorpusFile(path string) (*models.TrainingCorpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var corpus models.TrainingCorpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", path, err)
	}
	if len(corpus.Samples) == 0 {
		return nil, fmt.Errorf("corpus %s contains no samples", path)
	}
	return &corpus, nil
}

func loadCorpusClickHouse(ctx context.Context, logger *zap.SugaredLogger) (*models.TrainingCorpus, error) {
	url := os.Getenv("CLICKHOUSE_URL")
	if url == "" {
		return nil, fmt.Errorf("CLICKHOUSE_URL is required with -from-clickhouse")
	}
	chOpts, err := clickhouse.ParseDSN(url)
	if err != nil {
		return nil, fmt.Errorf("invalid CLICKHOUSE_URL: %w", err)
	}
	conn, err := clickhouse.Open(chOpts)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	samples, err := querySamples(ctx, conn)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("training_samples table is empty")
	}

	matches := make(map[string]struct{})
	for i := range samples {
		matches[samples[i].MatchID] = struct{}{}
	}
	logger.Infow("Corpus read from ClickHouse", "samples", len(samples), "matches", len(matches))

	return &models.TrainingCorpus{
		CollectionDate: time.Now().UTC().Format(time.RFC3339),
		NumMatches:     len(matches),
		NumSamples:     len(samples),
		Samples:        samples,
	}, nil
}

func querySamples(ctx context.Context, conn driver.Conn) ([]models.TrainingSample, error) {
	rows, err := conn.Query(ctx, `
		SELECT match_id, puuid, champion, role, win,
			kills, deaths, assists, kda,
			cs_per_min, jungle_cs, gold_per_min,
			damage_per_min, damage_taken_per_min, damage_mitigated, damage_share,
			vision_per_min, wards_placed, wards_killed, control_wards,
			turret_plates, turrets, dragons, barons,
			cs_at_10, cs_advantage, gold_advantage,
			kill_participation, solo_kills, multikills,
			cc_time, healing, shielding,
			time_dead_pct, longest_living,
			skillshots_hit, skillshots_dodged,
			first_blood, first_tower, game_duration
		FROM lol_stats.training_samples
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.TrainingSample
	for rows.Next() {
		var s models.TrainingSample
		var role string
		var win uint8
		if err := rows.Scan(
			&s.MatchID, &s.PUUID, &s.Champion, &role, &win,
			&s.Kills, &s.Deaths, &s.Assists, &s.KDA,
			&s.CSPerMin, &s.JungleCS, &s.GoldPerMin,
			&s.DamagePerMin, &s.DamageTakenPerMin, &s.DamageMitigated, &s.DamageShare,
			&s.VisionPerMin, &s.WardsPlaced, &s.WardsKilled, &s.ControlWards,
			&s.TurretPlates, &s.Turrets, &s.Dragons, &s.Barons,
			&s.CSAt10, &s.CSAdvantage, &s.GoldAdvantage,
			&s.KillParticipation, &s.SoloKills, &s.Multikills,
			&s.CCTime, &s.Healing, &s.Shielding,
			&s.TimeDeadPct, &s.LongestLiving,
			&s.SkillshotsHit, &s.SkillshotsDodged,
			&s.FirstBlood, &s.FirstTower, &s.GameDuration,
		); err != nil {
			return nil, err
		}
		s.Role = models.Role(role)
		s.Win = win == 1
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func registerVersions(ctx context.Context, logger *zap.SugaredLogger, outputDir string, result *logic.TrainResult) error {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		return fmt.Errorf("POSTGRES_URL is required with -register")
	}
	pg, err := pgxpool.New(ctx, url)
	if err != nil {
		return err
	}
	defer pg.Close()

	registry := mlstore.NewRegistry(pg)
	for role, trained := range result.Roles {
		if err := registry.Register(ctx, trained.Model, outputDir); err != nil {
			return fmt.Errorf("registering %s version: %w", role, err)
		}
		logger.Infow("Version registered", "role", role, "version", trained.Model.Version)
	}
	return nil
}
