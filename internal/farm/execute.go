package farm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/event"
	"github.com/osse101/farmclock/internal/growth"
	"github.com/osse101/farmclock/internal/journal"
	"github.com/osse101/farmclock/internal/logger"
	"github.com/osse101/farmclock/internal/memo"
	"github.com/osse101/farmclock/internal/metrics"
	"github.com/osse101/farmclock/internal/refresh"
	"github.com/osse101/farmclock/internal/wallet"
)

// Execute checks the action locally, claims its gate key, hands the
// transaction to the wallet and records the outcome. A dismissed wallet
// prompt is reported as a cancelled outcome with a nil error. The gate key
// is released on every path.
func (s *service) Execute(ctx context.Context, req ActionRequest) (*Outcome, error) {
	log := logger.FromContext(ctx)

	key, err := req.Key()
	if err != nil {
		return nil, err
	}
	actor := s.account()
	if actor == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgReadOnly)
	}

	pc, err := s.precheck(ctx, req, actor)
	if err != nil {
		if domain.IsLocalRejection(err) {
			log.Info(LogMsgActionRejected, "key", key.String(), "reason", err)
		}
		return nil, err
	}

	memoText, actions, err := s.buildActions(req, actor, pc.inventory)
	if err != nil {
		return nil, err
	}

	if !s.gate.TryAcquire(key) {
		metrics.GateRejections.WithLabelValues(string(req.Action)).Inc()
		log.Info(LogMsgActionBusy, "key", key.String())
		return nil, fmt.Errorf("%w: %s", domain.ErrActionPending, key)
	}
	defer s.gate.Release(key)

	// the outcome is recorded even if the caller goes away mid-signing
	bg := context.WithoutCancel(ctx)

	entry := journal.NewEntry(key, req.FarmID, memoText, s.now())
	if err := s.journal.Record(bg, entry); err != nil {
		log.Error(LogMsgJournalFailed, "key", key.String(), "error", err)
	}

	out := &Outcome{
		EntryID: entry.ID,
		Key:     entry.Key,
		Action:  string(req.Action),
		Memo:    memoText,
		Actions: wallet.Describe(actions),
		Outcome: domain.OutcomeSubmitted,
	}
	s.publish(bg, event.NewActionEvent(event.ActionSubmitted, s.payload(req, out)))

	log.Info(LogMsgActionSubmitting, "key", out.Key, "actions", out.Actions)
	receipt, txErr := s.session.Transact(ctx, actions)
	classified := wallet.Classify(txErr)

	switch {
	case classified == nil:
		out.Outcome = domain.OutcomeSucceeded
		out.TxID = receipt.TransactionID
		out.Projected = pc.project(req.Action, s.clock.Estimate())
	case errors.Is(classified, domain.ErrUserCancelled):
		out.Outcome = domain.OutcomeCancelled
		classified = nil
	case errors.Is(classified, domain.ErrContractAssertion):
		out.Outcome = domain.OutcomeRejected
		out.Message = wallet.UserMessage(classified)
	default:
		out.Outcome = domain.OutcomeFailed
		out.Message = wallet.UserMessage(classified)
	}

	if err := s.journal.Resolve(bg, entry.ID, journal.Resolution{
		Outcome: out.Outcome,
		TxID:    out.TxID,
		Message: out.Message,
		At:      s.now(),
	}); err != nil {
		log.Error(LogMsgJournalFailed, "key", out.Key, "error", err)
	}
	s.publish(bg, event.NewActionEvent(event.ActionResolved, s.payload(req, out)))
	log.Info(LogMsgActionResolved, "key", out.Key, "outcome", out.Outcome, "tx_id", out.TxID)

	if out.Outcome == domain.OutcomeSucceeded {
		s.startRefresh(bg, req, actor)
	}
	return out, classified
}

// prechecked is what the local checks read
type prechecked struct {
	inventory domain.Inventory
	slot      *domain.Slot
}

// project returns the checked slot as it will look once action lands, or nil
// for actions that do not target a slot
func (p prechecked) project(action domain.ActionType, now time.Time) *domain.Slot {
	if p.slot == nil {
		return nil
	}
	next, err := growth.Apply(action, *p.slot, now)
	if err != nil {
		return nil
	}
	next = growth.Normalize(next)
	return &next
}

// precheck runs the local legality checks
func (s *service) precheck(ctx context.Context, req ActionRequest, actor string) (prechecked, error) {
	var pc prechecked

	switch req.Action {
	case domain.ActionPlant, domain.ActionWater, domain.ActionHarvest:
		plot, err := s.snapshots.Plot(ctx, req.FarmID, req.PlotID)
		if err != nil {
			return pc, err
		}
		slot, ok := plot.FindSlot(req.Slot)
		if !ok {
			return pc, fmt.Errorf("%w: plot %s slot %d", domain.ErrSlotNotFound, req.PlotID, req.Slot)
		}
		pc.slot = &slot

		gctx := growth.Context{Now: s.clock.Estimate(), WaterEnergyCost: s.settings.WaterEnergyCost}
		switch req.Action {
		case domain.ActionPlant:
			if pc.inventory, err = s.snapshots.Inventory(ctx, actor); err != nil {
				return pc, err
			}
			gctx.SeedsAvailable = pc.inventory.SeedsAvailable()
		case domain.ActionWater:
			if !s.clock.Synced() {
				return pc, fmt.Errorf("%w: %s", domain.ErrNetworkOrIndexerLag, ErrMsgClockUnsynced)
			}
			if s.settings.WaterEnergyCost > 0 {
				f, err := s.snapshots.Farm(ctx, actor, req.FarmID)
				if err != nil {
					return pc, err
				}
				gctx.Energy = f.Energy
			}
		}
		return pc, growth.Check(req.Action, slot, gctx)

	case domain.ActionUnstake:
		plot, err := s.snapshots.Plot(ctx, req.FarmID, req.PlotID)
		if err != nil {
			return pc, err
		}
		return pc, growth.CanUnstake(plot)
	}
	return pc, nil
}

// buildActions encodes the request into its memo and contract actions
func (s *service) buildActions(req ActionRequest, actor string, inv domain.Inventory) (string, []wallet.Action, error) {
	st := s.settings

	switch req.Action {
	case domain.ActionWater, domain.ActionHarvest:
		name := wallet.ActionNameWater
		if req.Action == domain.ActionHarvest {
			name = wallet.ActionNameHarvest
		}
		data := wallet.SlotData{Owner: actor, PlotID: req.PlotID, Slot: req.Slot}
		return "", []wallet.Action{wallet.NewContractAction(st.FarmContract, name, actor, data)}, nil

	case domain.ActionUnstake:
		data := wallet.PlotData{Owner: actor, PlotID: req.PlotID}
		return "", []wallet.Action{wallet.NewContractAction(st.FarmContract, wallet.ActionNameUnstake, actor, data)}, nil

	case domain.ActionPlant:
		if len(inv.Seeds) == 0 {
			return "", nil, fmt.Errorf("%w: %s", domain.ErrSeedUnavailable, ErrMsgNoSeedAsset)
		}
		m, err := memo.PlantMemo(req.PlotID, req.Slot)
		if err != nil {
			return "", nil, err
		}
		return m, []wallet.Action{s.nftTransfer(actor, []string{inv.Seeds[0].AssetID}, m)}, nil

	case domain.ActionStake:
		m, err := memo.StakeMemo(req.FarmID, req.AssetIDs...)
		if err != nil {
			return "", nil, err
		}
		return m, []wallet.Action{s.nftTransfer(actor, req.AssetIDs, m)}, nil

	case domain.ActionRecharge, domain.ActionDeposit, domain.ActionVote:
		var (
			m   string
			err error
		)
		switch req.Action {
		case domain.ActionRecharge:
			m, err = memo.RechargeMemo(req.FarmID)
		case domain.ActionDeposit:
			m, err = memo.DepositMemo(req.FarmID)
		default:
			m, err = memo.VoteMemo(req.ProposalID, req.Approve)
		}
		if err != nil {
			return "", nil, err
		}
		transfer, err := s.tokenTransfer(actor, req.Amount, m)
		if err != nil {
			return "", nil, err
		}
		return m, []wallet.Action{transfer}, nil

	case domain.ActionPropose:
		p := *req.Proposal
		p.Actor = actor
		m, err := memo.ProposeMemo(p, st.TokenPrecision)
		if err != nil {
			return "", nil, err
		}
		transfer, err := s.tokenTransfer(actor, p.Fee, m)
		if err != nil {
			return "", nil, err
		}
		return m, []wallet.Action{transfer}, nil
	}

	return "", nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, req.Action)
}

func (s *service) nftTransfer(actor string, assetIDs []string, m string) wallet.Action {
	return wallet.NewTransfer(s.settings.NFTContract, actor, s.settings.FarmContract,
		wallet.TransferData{AssetIDs: assetIDs, Memo: m})
}

func (s *service) tokenTransfer(actor, amount, m string) (wallet.Action, error) {
	qty, err := memo.ToAssetString(amount, s.settings.TokenSymbol, s.settings.TokenPrecision)
	if err != nil {
		return wallet.Action{}, err
	}
	return wallet.NewTransfer(s.settings.TokenContract, actor, s.settings.FarmContract,
		wallet.TransferData{Quantity: qty, Memo: m}), nil
}

// startRefresh re-fetches the farm's plots a few times so the indexer's
// post-transaction state replaces the cached one. A newer refresh of the same
// farm supersedes this one.
func (s *service) startRefresh(ctx context.Context, req ActionRequest, actor string) {
	s.snapshots.Invalidate(ctx, req.FarmID)
	if req.Action.IsSlotAction() || req.Action == domain.ActionStake {
		s.snapshots.InvalidateAccount(ctx, actor)
	}

	farmID := req.FarmID
	task := refresh.NewTask(func(ctx context.Context) error {
		_, err := s.snapshots.FetchPlots(ctx, farmID)
		return err
	}, s.settings.Refresh).OnDone(func(res refresh.Result) {
		payload := event.RefreshPayloadV1{
			FarmID:    farmID,
			Attempts:  res.Attempts,
			Successes: res.Successes,
			Cancelled: res.Cancelled,
		}
		if err := res.Err(); err != nil {
			payload.Error = err.Error()
		}
		logger.FromContext(ctx).Debug(LogMsgRefreshDone, "farm_id", farmID,
			"attempts", res.Attempts, "successes", res.Successes, "cancelled", res.Cancelled)
		s.publish(ctx, event.NewRefreshCompletedEvent(payload))
	})

	s.refreshes.Track(ctx, farmID, task)
	if s.pool == nil {
		go func() { _ = task.Process(ctx) }()
		return
	}
	if err := s.pool.TryEnqueue(task); err != nil {
		logger.FromContext(ctx).Warn(LogMsgRefreshQueueFull, "farm_id", farmID, "error", err)
		task.Cancel()
	}
}

func (s *service) payload(req ActionRequest, out *Outcome) event.ActionPayloadV1 {
	slot := req.Slot
	if !req.Action.IsSlotAction() {
		slot = domain.PlotLevel
	}
	return event.ActionPayloadV1{
		EntryID:   out.EntryID,
		Key:       out.Key,
		Action:    out.Action,
		FarmID:    req.FarmID,
		PlotID:    req.PlotID,
		Slot:      slot,
		Memo:      out.Memo,
		TxID:      out.TxID,
		Outcome:   out.Outcome,
		Message:   out.Message,
		Timestamp: s.now().Unix(),
	}
}
