package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/parcelmesh/bridge/internal/server"
	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.0.1"

var (
	flagMock     bool
	flagCarrier  string
	flagCarriers []string
	flagInput    string
	flagPort     int
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "bridge",
	Short:   "Parcelmesh Bridge - multi-carrier shipping normalization engine",
	Version: version,
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch rate quotes from one or more carriers",
	RunE:  runRates,
}

var shipCmd = &cobra.Command{
	Use:   "ship",
	Short: "Create a shipment and retrieve its label",
	RunE:  runShip,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel [shipment-identifier]",
	Short: "Void a previously created shipment",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancel,
}

var trackCmd = &cobra.Command{
	Use:   "track [tracking-numbers...]",
	Short: "Fetch tracking details for one or more tracking numbers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrack,
}

var pickupCmd = &cobra.Command{
	Use:   "pickup",
	Short: "Schedule, update or cancel a carrier pickup",
}

var pickupScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule a pickup",
	RunE:  runPickupSchedule,
}

var pickupUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reschedule an existing pickup",
	RunE:  runPickupUpdate,
}

var pickupCancelCmd = &cobra.Command{
	Use:   "cancel [confirmation-number]",
	Short: "Cancel a scheduled pickup",
	Args:  cobra.ExactArgs(1),
	RunE:  runPickupCancel,
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload trade documents ahead of a shipment",
	RunE:  runUpload,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagMock, "mock", false,
		"use canned carrier responses instead of live APIs")
	rootCmd.PersistentFlags().StringVar(&flagCarrier, "carrier", "",
		"carrier id to use for single-carrier operations")
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "f", "",
		"path to a JSON request file (defaults to stdin)")

	ratesCmd.Flags().StringSliceVar(&flagCarriers, "carriers", nil,
		"carrier ids to quote (defaults to all registered)")

	serveCmd.Flags().IntVar(&flagPort, "port", 0,
		"port to listen on (defaults to the PORT environment variable)")

	pickupCmd.AddCommand(pickupScheduleCmd, pickupUpdateCmd, pickupCancelCmd)
	rootCmd.AddCommand(ratesCmd, shipCmd, cancelCmd, trackCmd, pickupCmd, uploadCmd, serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	port := app.cfg.ServerPort
	if flagPort != 0 {
		port = flagPort
	}

	srv := server.New(server.Config{Port: port}, app.registry, app.logger, app.metrics)
	return srv.Run(cmd.Context())
}

func runRates(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	var req carrier.RateRequest
	if err := readRequest(&req); err != nil {
		return err
	}

	rates, messages, errs := app.registry.FetchRates(cmd.Context(), &req, flagCarriers)
	for _, err := range errs {
		app.logger.Ctx(cmd.Context()).Warn("Carrier rating failed", zap.Error(err))
	}
	return printResult(map[string]any{"rates": rates, "messages": messages})
}

func runShip(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	creator, err := app.shipmentCreator(flagCarrier)
	if err != nil {
		return err
	}

	var req carrier.ShipmentRequest
	if err := readRequest(&req); err != nil {
		return err
	}

	details, messages, err := app.instrument(cmd.Context(), "shipment", flagCarrier,
		func(ctx context.Context) (any, []carrier.Message, error) {
			d, m, err := creator.CreateShipment(ctx, &req)
			if d == nil {
				return nil, m, err
			}
			return d, m, err
		})
	if err != nil {
		return err
	}
	return printResult(map[string]any{"shipment": details, "messages": messages})
}

func runCancel(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	canceler, err := app.shipmentCanceler(flagCarrier)
	if err != nil {
		return err
	}

	req := carrier.ShipmentCancelRequest{ShipmentIdentifier: args[0]}
	confirmation, messages, err := app.instrument(cmd.Context(), "shipment_cancel", flagCarrier,
		func(ctx context.Context) (any, []carrier.Message, error) {
			c, m, err := canceler.CancelShipment(ctx, &req)
			if c == nil {
				return nil, m, err
			}
			return c, m, err
		})
	if err != nil {
		return err
	}
	return printResult(map[string]any{"confirmation": confirmation, "messages": messages})
}

func runTrack(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	tracker, err := app.tracker(flagCarrier)
	if err != nil {
		return err
	}

	req := carrier.TrackingRequest{TrackingNumbers: args}
	tracking, messages, err := app.instrument(cmd.Context(), "tracking", flagCarrier,
		func(ctx context.Context) (any, []carrier.Message, error) {
			t, m, err := tracker.FetchTracking(ctx, &req)
			return t, m, err
		})
	if err != nil {
		return err
	}
	return printResult(map[string]any{"tracking": tracking, "messages": messages})
}

func runPickupSchedule(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	scheduler, err := app.pickupScheduler(flagCarrier)
	if err != nil {
		return err
	}

	var req carrier.PickupRequest
	if err := readRequest(&req); err != nil {
		return err
	}

	pickup, messages, err := app.instrument(cmd.Context(), "pickup", flagCarrier,
		func(ctx context.Context) (any, []carrier.Message, error) {
			p, m, err := scheduler.SchedulePickup(ctx, &req)
			if p == nil {
				return nil, m, err
			}
			return p, m, err
		})
	if err != nil {
		return err
	}
	return printResult(map[string]any{"pickup": pickup, "messages": messages})
}

func runPickupUpdate(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	updater, err := app.pickupUpdater(flagCarrier)
	if err != nil {
		return err
	}

	var req carrier.PickupUpdateRequest
	if err := readRequest(&req); err != nil {
		return err
	}

	pickup, messages, err := app.instrument(cmd.Context(), "pickup_update", flagCarrier,
		func(ctx context.Context) (any, []carrier.Message, error) {
			p, m, err := updater.UpdatePickup(ctx, &req)
			if p == nil {
				return nil, m, err
			}
			return p, m, err
		})
	if err != nil {
		return err
	}
	return printResult(map[string]any{"pickup": pickup, "messages": messages})
}

func runPickupCancel(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	canceler, err := app.pickupCanceler(flagCarrier)
	if err != nil {
		return err
	}

	req := carrier.PickupCancelRequest{ConfirmationNumber: args[0]}
	confirmation, messages, err := app.instrument(cmd.Context(), "pickup_cancel", flagCarrier,
		func(ctx context.Context) (any, []carrier.Message, error) {
			c, m, err := canceler.CancelPickup(ctx, &req)
			if c == nil {
				return nil, m, err
			}
			return c, m, err
		})
	if err != nil {
		return err
	}
	return printResult(map[string]any{"confirmation": confirmation, "messages": messages})
}

func runUpload(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close(cmd.Context())

	uploader, err := app.documentUploader(flagCarrier)
	if err != nil {
		return err
	}

	var req carrier.DocumentUploadRequest
	if err := readRequest(&req); err != nil {
		return err
	}

	details, messages, err := app.instrument(cmd.Context(), "document_upload", flagCarrier,
		func(ctx context.Context) (any, []carrier.Message, error) {
			d, m, err := uploader.UploadDocuments(ctx, &req)
			if d == nil {
				return nil, m, err
			}
			return d, m, err
		})
	if err != nil {
		return err
	}
	return printResult(map[string]any{"documents": details, "messages": messages})
}

func readRequest(v any) error {
	reader := os.Stdin
	if flagInput != "" {
		file, err := os.Open(flagInput)
		if err != nil {
			return fmt.Errorf("opening request file: %w", err)
		}
		defer file.Close()
		reader = file
	}
	if err := json.NewDecoder(reader).Decode(v); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func printResult(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
