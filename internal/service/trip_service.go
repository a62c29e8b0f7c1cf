package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/freightops-trips/internal/controller"
	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/reconcile"
)

type ExcelGenerator interface {
	Generate(report reconcile.TripFiscalReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report reconcile.TripFiscalReport) ([]byte, error)
}

// TripService wraps the controller store with caller permissions and the
// export generators. All domain decisions happen in the validators and the
// store; this layer only gates and orchestrates.
type TripService struct {
	store *controller.Store
	excel ExcelGenerator
	pdf   PDFGenerator
	log   zerolog.Logger
}

func NewTripService(store *controller.Store, excel ExcelGenerator, pdf PDFGenerator, log zerolog.Logger) *TripService {
	return &TripService{
		store: store,
		excel: excel,
		pdf:   pdf,
		log:   log,
	}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *TripService) Snapshot(principal model.Principal) *controller.State {
	return s.store.Snapshot()
}

func (s *TripService) Trip(principal model.Principal, id uuid.UUID) (*model.Trip, error) {
	trip, err := s.store.Trip(id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return trip, nil
}

func (s *TripService) AttachLoad(principal model.Principal, in controller.AttachInput) (controller.Outcome, error) {
	if !principal.CanMutate() {
		return controller.Outcome{}, ErrPermissionDenied
	}
	outcome, err := s.store.AttachLoadToTrip(in)
	if err != nil {
		return controller.Outcome{}, wrapNotFound(err)
	}
	return outcome, nil
}

func (s *TripService) EmitWaybill(principal model.Principal, loadID uuid.UUID) (controller.SingleOutcome, error) {
	if !principal.CanMutate() {
		return controller.SingleOutcome{}, ErrPermissionDenied
	}
	outcome, err := s.store.EmitWaybill(loadID)
	if err != nil {
		return controller.SingleOutcome{}, wrapNotFound(err)
	}
	return outcome, nil
}

func (s *TripService) CancelWaybill(principal model.Principal, loadID uuid.UUID) (controller.SingleOutcome, error) {
	if !principal.CanMutate() {
		return controller.SingleOutcome{}, ErrPermissionDenied
	}
	outcome, err := s.store.CancelWaybill(loadID)
	if err != nil {
		return controller.SingleOutcome{}, wrapNotFound(err)
	}
	return outcome, nil
}

func (s *TripService) ChangeDriver(principal model.Principal, tripID uuid.UUID, driver string) (controller.SingleOutcome, error) {
	if !principal.CanMutate() {
		return controller.SingleOutcome{}, ErrPermissionDenied
	}
	outcome, err := s.store.ChangeDriver(tripID, driver)
	if err != nil {
		return controller.SingleOutcome{}, wrapNotFound(err)
	}
	return outcome, nil
}

func (s *TripService) ChangeVehicle(principal model.Principal, tripID, vehicleID uuid.UUID) (controller.SingleOutcome, error) {
	if !principal.CanMutate() {
		return controller.SingleOutcome{}, ErrPermissionDenied
	}
	outcome, err := s.store.ChangeVehicle(tripID, vehicleID)
	if err != nil {
		return controller.SingleOutcome{}, wrapNotFound(err)
	}
	return outcome, nil
}

func (s *TripService) AdvanceTrip(principal model.Principal, in controller.AdvanceInput) (controller.SingleOutcome, error) {
	if !principal.CanMutate() {
		return controller.SingleOutcome{}, ErrPermissionDenied
	}
	outcome, err := s.store.AdvanceTrip(in)
	if err != nil {
		return controller.SingleOutcome{}, wrapNotFound(err)
	}
	return outcome, nil
}

func (s *TripService) IssueManifest(principal model.Principal, tripID uuid.UUID) (controller.SingleOutcome, error) {
	if !principal.CanMutate() {
		return controller.SingleOutcome{}, ErrPermissionDenied
	}
	outcome, err := s.store.IssueManifest(tripID)
	if err != nil {
		return controller.SingleOutcome{}, wrapNotFound(err)
	}
	return outcome, nil
}

func (s *TripService) DeliveryHierarchy(principal model.Principal, tripID, deliveryID uuid.UUID) (reconcile.Hierarchy, error) {
	hierarchy, err := s.store.DeliveryHierarchy(tripID, deliveryID)
	if err != nil {
		return reconcile.Hierarchy{}, wrapNotFound(err)
	}
	return hierarchy, nil
}

// ReconcileDocuments groups an ad-hoc document list, for callers inspecting
// papers not yet attached to a delivery.
func (s *TripService) ReconcileDocuments(principal model.Principal, documents []model.Document) reconcile.Hierarchy {
	return reconcile.BuildWaybillHierarchy(documents)
}

func (s *TripService) ExportTripExcel(principal model.Principal, tripID uuid.UUID) (*ExportResult, error) {
	report, err := s.tripReport(tripID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("trip-%s-fiscal.xlsx", tripID),
		Content:  content,
	}, nil
}

func (s *TripService) ExportTripPDF(principal model.Principal, tripID uuid.UUID) (*ExportResult, error) {
	report, err := s.tripReport(tripID)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("trip-%s-fiscal.pdf", tripID),
		Content:  content,
	}, nil
}

func (s *TripService) tripReport(tripID uuid.UUID) (*reconcile.TripFiscalReport, error) {
	trip, err := s.store.Trip(tripID)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	report := reconcile.BuildTripReport(*trip)
	return &report, nil
}

func wrapNotFound(err error) error {
	switch {
	case errors.Is(err, controller.ErrTripNotFound),
		errors.Is(err, controller.ErrLoadNotFound),
		errors.Is(err, controller.ErrVehicleNotFound),
		errors.Is(err, controller.ErrLegNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}
