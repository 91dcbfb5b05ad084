package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/specmint/syndata/internal/config"
	"github.com/specmint/syndata/internal/httpapi"
	"github.com/specmint/syndata/internal/logger"
	"github.com/specmint/syndata/internal/rpcapi"
	"github.com/specmint/syndata/internal/telemetry"
	"github.com/specmint/syndata/internal/writer"
	"github.com/specmint/syndata/pkg/constraint"
	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/orchestrator"
	"github.com/specmint/syndata/pkg/population"
	"github.com/specmint/syndata/pkg/schema"
)

func loadConfigOrExit(configFile string, log zerolog.Logger) *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	return cfg
}

func newServeCmd(configFile *string, log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP generation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigOrExit(*configFile, log)
			log = logger.Operation(logger.WithLevel(cfg.LogLevel), "serve")

			shutdownTracing, err := telemetry.InitTracing(cmd.Context(), cfg.ServiceName, cfg.Tracing.OTLPEndpoint, cfg.Tracing.Enabled)
			if err != nil {
				return fmt.Errorf("failed to initialise tracing: %w", err)
			}
			defer shutdownTracing(cmd.Context())

			var metrics orchestrator.Metrics
			if cfg.Prometheus.Enabled {
				metrics = telemetry.NewMetrics()
			}
			st, err := buildStack(cfg, log, metrics)
			if err != nil {
				return fmt.Errorf("failed to build generation stack: %w", err)
			}

			grpcServer := grpc.NewServer()
			rpcapi.RegisterDataServiceServer(grpcServer, rpcapi.New(st.orchestrator, st.registry, log))

			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
			if err != nil {
				return fmt.Errorf("failed to bind grpc listener: %w", err)
			}
			go func() {
				log.Info().Int("port", cfg.GRPCPort).Msg("grpc server listening")
				if err := grpcServer.Serve(lis); err != nil {
					log.Error().Err(err).Msg("grpc server stopped")
				}
			}()

			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
				Handler:           httpapi.New(st.orchestrator, st.registry, log, func() bool { return true }).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			log.Info().Int("port", cfg.HTTPPort).Msg("http server listening")
			return httpServer.ListenAndServe()
		},
	}
}

func newGenerateCmd(configFile *string, log zerolog.Logger) *cobra.Command {
	var (
		schemaFile string
		outputDir  string
		domain     string
		entity     string
		count      int
		method     string
		baseUsers  int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic dataset to local files",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Operation(log, "generate")
			cfg := loadConfigOrExit(*configFile, log)
			st, err := buildStack(cfg, log, nil)
			if err != nil {
				return fmt.Errorf("failed to build generation stack: %w", err)
			}

			req := &model.GenerateRequest{
				RequestID:        uuid.NewString(),
				Domain:           domain,
				Entity:           entity,
				Count:            count,
				GenerationMethod: model.GenerationMethod(method),
			}
			if schemaFile != "" {
				data, err := os.ReadFile(schemaFile)
				if err != nil {
					return fmt.Errorf("failed to read schema file: %w", err)
				}
				req.SchemaRef = data
			}
			if baseUsers > 0 {
				req.Scenarios = population.Plan(baseUsers)
			}

			resp, err := st.orchestrator.Generate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			var records []model.Record
			if err := json.Unmarshal(resp.Data, &records); err != nil {
				return fmt.Errorf("failed to decode generated records: %w", err)
			}

			w, err := writer.New(outputDir, writer.FormatJSONL)
			if err != nil {
				return err
			}
			if err := w.WriteRecords(records); err != nil {
				return fmt.Errorf("failed to write dataset: %w", err)
			}
			if err := w.WriteManifest(resp.Metadata); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}

			log.Info().Int("record_count", resp.RecordCount).Str("out", w.OutputPath()).Msg("dataset written")
			fmt.Printf("generated %d records -> %s\n", resp.RecordCount, w.OutputPath())
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "inline JSON schema document path")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "./output", "output directory")
	cmd.Flags().StringVar(&domain, "domain", "retail", "request domain")
	cmd.Flags().StringVarP(&entity, "entity", "e", "", "entity name (required)")
	cmd.Flags().IntVarP(&count, "count", "c", 100, "number of records to generate")
	cmd.Flags().StringVarP(&method, "method", "m", "AUTO", "generation method: AUTO, SYNTHETIC, LLM, RETRIEVAL, HYBRID")
	cmd.Flags().IntVar(&baseUsers, "population-base-users", 0, "expand into ecommerce-ratio scenarios scaled from this many users (ignores --entity scenarios when set)")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}

func newSchemasCmd(configFile *string, log zerolog.Logger) *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List registered schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Operation(log, "schemas")
			reg := schema.NewRegistry()
			schemas := reg.List(domain)
			log.Debug().Str("domain", domain).Int("count", len(schemas)).Msg("listing schemas")
			infos := make([]*schema.Info, 0, len(schemas))
			for _, s := range schemas {
				infos = append(infos, s.ToInfo())
			}
			out, err := json.MarshalIndent(infos, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "filter by domain")
	return cmd
}

func newValidateCmd(log zerolog.Logger) *cobra.Command {
	var schemaFile, datasetFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a dataset file against a JSON schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Operation(log, "validate")
			schemaData, err := os.ReadFile(schemaFile)
			if err != nil {
				return fmt.Errorf("failed to read schema file: %w", err)
			}
			sch, err := schema.ParseInline(schemaData)
			if err != nil {
				return fmt.Errorf("failed to parse schema: %w", err)
			}

			raw, err := os.ReadFile(datasetFile)
			if err != nil {
				return fmt.Errorf("failed to open dataset: %w", err)
			}

			// A top-level array is read element by element after its opening
			// bracket; otherwise every top-level value is one record.
			dec := json.NewDecoder(bytes.NewReader(raw))
			if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
				if _, err := dec.Token(); err != nil {
					return fmt.Errorf("failed to read dataset array: %w", err)
				}
			}
			recordCount, issueCount := 0, 0
			for dec.More() {
				var record model.Record
				if err := dec.Decode(&record); err != nil {
					return fmt.Errorf("failed to decode record %d: %w", recordCount, err)
				}
				recordCount++
				issues := constraint.Validate(sch, nil, record)
				issueCount += len(issues)
				for _, issue := range issues {
					fmt.Printf("record %d: %s: %s\n", recordCount, issue.FieldPath, issue.Message)
				}
			}

			log.Info().Int("record_count", recordCount).Int("issue_count", issueCount).Msg("validation complete")
			fmt.Printf("validated %d records, %d issues\n", recordCount, issueCount)
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "JSON schema file (required)")
	cmd.Flags().StringVarP(&datasetFile, "dataset", "d", "", "dataset file, one JSON record per line or array (required)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func newDoctorCmd(configFile *string, log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and backend connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Operation(log, "doctor")
			cfg := loadConfigOrExit(*configFile, log)

			fmt.Printf("service_name: %s\n", cfg.ServiceName)
			fmt.Printf("grpc_port: %d, http_port: %d\n", cfg.GRPCPort, cfg.HTTPPort)
			fmt.Printf("anthropic api key set: %v\n", cfg.Anthropic.APIKey != "")
			fmt.Printf("local llm enabled: %v (%s)\n", cfg.Local.Enabled, cfg.Local.BaseURL)
			fmt.Printf("redis: %s\n", cfg.Cache.RedisURL)

			if _, err := buildStack(cfg, log, nil); err != nil {
				fmt.Printf("stack build failed: %v\n", err)
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			// The cache's own Connect logs and swallows a failed ping, so Redis
			// is probed directly; buildStack has already parsed the URL.
			opts, _ := redis.ParseURL(cfg.Cache.RedisURL)
			client := redis.NewClient(opts)
			defer client.Close()
			if err := client.Ping(ctx).Err(); err != nil {
				fmt.Printf("cache connect: FAILED (%v)\n", err)
			} else {
				fmt.Println("cache connect: ok")
			}
			return nil
		},
	}
}
