package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	vo "github.com/milkrun/milkrun/internal/domain/adhoc/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/shared/db"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// AdhocMaterializer creates the deliveries of approved adhoc items.
type AdhocMaterializer interface {
	MaterializeAdhocItems(ctx context.Context, request *adhoc.Request, items []*adhoc.Item) (int, error)
}

type ItemDecisionInput struct {
	ItemID  uint
	Approve bool
	Reason  string
}

// ReviewAdhocRequestCommand carries the admin verdict. Decisions are read for
// the partial action only. Force approves items on blocked or full dates.
type ReviewAdhocRequestCommand struct {
	RequestID  uint
	ReviewerID uint
	Action     vo.ReviewAction
	Reason     string
	AdminNotes string
	Decisions  []ItemDecisionInput
	Force      bool
}

type ReviewAdhocRequestUseCase struct {
	requestRepo  adhoc.RequestRepository
	ledger       *CapacityLedger
	materializer AdhocMaterializer
	settings     setting.SettingProvider
	txManager    db.Transactor
	publisher    events.EventPublisher
	logger       logger.Interface
}

func NewReviewAdhocRequestUseCase(
	requestRepo adhoc.RequestRepository,
	ledger *CapacityLedger,
	materializer AdhocMaterializer,
	settings setting.SettingProvider,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *ReviewAdhocRequestUseCase {
	return &ReviewAdhocRequestUseCase{
		requestRepo:  requestRepo,
		ledger:       ledger,
		materializer: materializer,
		settings:     settings,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

// Execute applies the verdict, reserves capacity for the approved items and
// schedules their deliveries, all in one transaction.
func (uc *ReviewAdhocRequestUseCase) Execute(ctx context.Context, cmd ReviewAdhocRequestCommand) (*adhoc.Request, error) {
	if !cmd.Action.IsValid() {
		return nil, mapAdhocError(fmt.Errorf("%w: %q", adhoc.ErrInvalidReviewAction, cmd.Action))
	}
	if cmd.ReviewerID == 0 {
		return nil, apperrors.NewValidationError("reviewer is required")
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	var request *adhoc.Request
	deliveries := 0
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := lockRequest(ctx, uc.requestRepo, cmd.RequestID)
		if err != nil {
			return err
		}
		request = r

		if err := uc.applyVerdict(request, cmd); err != nil {
			return err
		}

		// The versioned write goes first so a lost race fails before any
		// capacity is taken.
		if err := uc.requestRepo.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update adhoc request: %w", err)
		}

		approved := request.ApprovedItems()
		if len(approved) > 0 {
			if err := uc.ledger.Reserve(ctx, countByDate(approved), settings.DefaultCapacity, cmd.Force); err != nil {
				return err
			}
		}

		if len(approved) > 0 {
			n, err := uc.materializer.MaterializeAdhocItems(ctx, request, approved)
			if err != nil {
				return err
			}
			deliveries = n
		}
		return nil
	})
	if err != nil {
		uc.logger.Warnw("adhoc review failed", "request_id", cmd.RequestID, "action", cmd.Action, "error", err)
		return nil, mapAdhocError(err)
	}

	uc.logger.Infow("adhoc request reviewed",
		"request_id", request.ID(),
		"action", cmd.Action,
		"status", request.Status(),
		"reviewer_id", cmd.ReviewerID,
		"deliveries_created", deliveries,
		"forced", cmd.Force,
	)
	publish(ctx, uc.publisher, uc.logger, adhoc.NewRequestEvent(adhoc.EventRequestReviewed, request))
	return request, nil
}

func (uc *ReviewAdhocRequestUseCase) applyVerdict(request *adhoc.Request, cmd ReviewAdhocRequestCommand) error {
	switch cmd.Action {
	case vo.ReviewApprove:
		return request.Approve(cmd.ReviewerID, cmd.AdminNotes)
	case vo.ReviewReject:
		return request.Reject(cmd.ReviewerID, cmd.Reason, cmd.AdminNotes)
	default:
		decisions := make(map[uint]adhoc.ItemDecision, len(cmd.Decisions))
		for _, d := range cmd.Decisions {
			decisions[d.ItemID] = adhoc.ItemDecision{Approve: d.Approve, Reason: d.Reason}
		}
		return request.ApplyDecisions(cmd.ReviewerID, cmd.AdminNotes, decisions)
	}
}
