package tracker

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/xerrors"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/metrics"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
)

var metOnce sync.Once
var met metrics.Service

type CurrentBlockProvider interface {
	BlockNumber(context.Context) (uint64, error)
}

type EventHandler interface {
	GetFilterTopics() [][]common.Hash
	ProcessEvents(bCtx.Ctx, []logWithBlockTime) error
}

const Version = 1
const CaughtUpBlock = 5
const TooManyLogsTimeout = 30 * time.Second

type EventTrackerCfg struct {
	ChainId             int64
	CurrentBlockGetter  CurrentBlockProvider
	Mongo               query.Mongo
	WsClient            domain.EthClientRepo
	RpcClient           domain.EthClientRepo
	TrackerStateUseCase domain.TrackerStateUseCase

	ContractAddress common.Address

	EventHandl         EventHandler
	ErrorCh            chan<- error
	TrackerTag         string
	ShouldDecodeSender bool
	FollowDistance     uint64
}

type EventTracker struct {
	chainId             int64
	currentBlockGetter  CurrentBlockProvider
	q                   query.Mongo
	wsClient            domain.EthClientRepo
	rpcClient           domain.EthClientRepo
	signer              types.Signer
	trackerStateUseCase domain.TrackerStateUseCase
	contractAddress     common.Address
	eventHandler        EventHandler
	errorCh             chan<- error
	filter              ethereum.FilterQuery
	trackerState        *domain.TrackerState
	trackerTag          string
	shouldDecodeSender  bool
	followDistance      uint64
	stoppedCh           chan interface{}
}

func NewEventTracker(cfg *EventTrackerCfg) (*EventTracker, error) {
	metOnce.Do(func() {
		met = metrics.New("tracker")
	})
	if domain.EmptyAddress.Equals(domain.Address(cfg.ContractAddress.String())) {
		return nil, errors.New("config error: contract address is required")
	}
	filter := ethereum.FilterQuery{
		Addresses: []common.Address{cfg.ContractAddress},
		Topics:    cfg.EventHandl.GetFilterTopics(),
	}
	signer := types.LatestSignerForChainID(new(big.Int).SetInt64(cfg.ChainId))
	return &EventTracker{
		chainId:             cfg.ChainId,
		currentBlockGetter:  cfg.CurrentBlockGetter,
		q:                   cfg.Mongo,
		wsClient:            cfg.WsClient,
		rpcClient:           cfg.RpcClient,
		signer:              signer,
		trackerStateUseCase: cfg.TrackerStateUseCase,
		contractAddress:     cfg.ContractAddress,
		eventHandler:        cfg.EventHandl,
		errorCh:             cfg.ErrorCh,
		trackerTag:          cfg.TrackerTag,
		shouldDecodeSender:  cfg.ShouldDecodeSender,
		followDistance:      cfg.FollowDistance,
		filter:              filter,
		stoppedCh:           make(chan interface{}),
	}, nil
}

func (f *EventTracker) Start(ctx bCtx.Ctx) {
	go func() {
		defer close(f.stoppedCh)
		if err := f.loop(ctx); err != nil {
			f.errorCh <- err
		}
	}()
}

func (f *EventTracker) Wait() {
	<-f.stoppedCh
}

func (f *EventTracker) loop(ctx bCtx.Ctx) error {
	state, err := f.setupTrackerState(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("setupTrackerState failed")
		return err
	}
	f.trackerState = state

	// fast fetch
	if err := f.fastFetch(ctx); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"chainId":  f.chainId,
			"contract": f.contractAddress,
		}).Error(fmt.Sprintf("fastFetch failed: %s err=%s", f.contractAddress.String(), err.Error()))
		return err
	}

	ch := make(chan types.Log, 1024)
	// remove from/to blocks is required
	filter := ethereum.FilterQuery{
		Addresses: f.filter.Addresses,
		Topics:    f.filter.Topics,
	}
	sub, err := f.wsClient.SubscribeFilterLogs(ctx, filter, ch)
	if err != nil {
		ctx.WithField("err", err).Error("client.SubscribeFilterLogs failed")
		return err
	}
	defer sub.Unsubscribe()
	ctx.WithField("contract", f.contractAddress).Info("subscription")

	// set dummy pending, so we won't miss the logs between last process block ~ current block
	current, err := f.currentBlockGetter.BlockNumber(ctx)
	if err != nil {
		return err
	}
	met.BumpAvg("blockchain.lastBlock", float64(current), "chainId", fmt.Sprint(f.chainId))
	lastPending := current
	pending := []uint64{current}

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			ctx.WithField("err", err).Error("sub.Err()")
			return err
		case l := <-ch:
			// add log block number to pending, and wait for confirmation (follow distance)
			if l.BlockNumber < lastPending {
				ctx.WithFields(log.Fields{
					"contract":         f.contractAddress,
					"log_block_number": l.BlockNumber,
					"last_pending":     lastPending,
				}).Warn("received old logs")
			}

			if l.BlockNumber > lastPending {
				lastPending = l.BlockNumber
				pending = append(pending, l.BlockNumber)
			}

			ctx.WithFields(log.Fields{
				"contract":         f.contractAddress,
				"log_block_number": l.BlockNumber,
				"last_pending":     lastPending,
				"numPending":       len(pending),
			}).Info("receive log")

		case <-ticker.C:
			// no pending event
			if len(pending) == 0 {
				continue
			}

			current, err := f.currentBlockGetter.BlockNumber(ctx)
			if err != nil {
				ctx.WithField("err", err).Error("currentBlockGetter.BlockNumber failed")
				return err
			}
			met.BumpAvg("blockchain.lastBlock", float64(current), "chainId", fmt.Sprint(f.chainId))
			target := current - f.followDistance

			// keep waiting
			if pending[0] > target {
				continue
			}

			start := f.trackerState.LastBlockProcessed
			end := target
			if end < start {
				continue
			}

			blkRange := newBlockRange(start, end)
			err = f.processBlkRange(ctx, blkRange)
			if err != nil {
				ctx.WithField("err", err).Error("f.processBlkRange failed")
				return err
			}
			ctx.Info(fmt.Sprintf("process block range start=%d end=%d last=%d contract=%s", start, end, f.trackerState.LastBlockProcessed, f.contractAddress.String()))
			met.BumpAvg("tracker.lastBlock", float64(f.trackerState.LastBlockProcessed), "chainId", fmt.Sprint(f.chainId), "contract", f.contractAddress.String())

			// remove pending <= target
			i := 0
			for _, p := range pending {
				if p > target {
					break
				}
				i += 1
			}
			pending = pending[i:]
		}
	}
}

func (f *EventTracker) fastFetch(ctx bCtx.Ctx) error {
	startBlk := f.trackerState.LastBlockProcessed
	endBlk, err := f.currentBlockGetter.BlockNumber(ctx)
	if err != nil {
		return err
	}
	endBlk = endBlk - f.followDistance
	ctx.Info(fmt.Sprintf("fast fetch %s start=%d end=%d", f.contractAddress.String(), startBlk, endBlk))
	for startBlk+CaughtUpBlock < endBlk {
		blkRange := newBlockRange(startBlk, endBlk)
		err = f.processBlkRange(ctx, blkRange)
		if err != nil {
			return err
		}
		startBlk = endBlk + 1
		endBlk, err = f.currentBlockGetter.BlockNumber(ctx)
		if err != nil {
			return err
		}
		endBlk = endBlk - f.followDistance
	}
	return nil
}

func (f *EventTracker) setupTrackerState(ctx bCtx.Ctx) (*domain.TrackerState, error) {
	addr := ToLowerHexStr(f.contractAddress)
	id := &domain.TrackerStateId{
		ChainId:         domain.ChainId(f.chainId),
		ContractAddress: domain.Address(addr),
		Tag:             f.trackerTag,
	}
	state, err := f.trackerStateUseCase.Get(ctx, id)
	if err == nil {
		if state.Version != Version {
			return nil, fmt.Errorf("cannot migrate tracker state from %d to %d", state.Version, Version)
		}
		return state, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		deployedBlk, err := getDeployedBlock(ctx, f.rpcClient, f.contractAddress)
		if err != nil {
			ctx.WithFields(log.Fields{
				"chainId":  f.chainId,
				"contract": f.contractAddress,
				"tag":      f.trackerTag,
				"err":      err,
			}).Error("failed to get deployed block")
			return nil, err
		}
		ctx.WithFields(log.Fields{
			"chainId":       f.chainId,
			"contract":      f.contractAddress,
			"tag":           f.trackerTag,
			"deployedBlock": deployedBlk,
		}).Info("got deployedBlock")
		state := &domain.TrackerState{
			ChainId:               domain.ChainId(f.chainId),
			ContractAddress:       domain.Address(addr),
			Tag:                   f.trackerTag,
			Version:               Version,
			LastBlockProcessed:    deployedBlk,
			LastLogIndexProcessed: -1,
		}
		err = f.trackerStateUseCase.Store(ctx, state)
		if err != nil {
			ctx.WithFields(log.Fields{
				"chainId":  f.chainId,
				"contract": f.contractAddress,
				"tag":      f.trackerTag,
				"err":      err,
			}).Error("failed to store tracker state")
			return nil, err
		}
		return state, nil
	}
	// repo error
	return nil, err
}

func (f *EventTracker) processBlkRange(ctx bCtx.Ctx, blkRange *blockRange) error {
	ranges := []*blockRange{blkRange}
	for len(ranges) > 0 {
		idx := len(ranges) - 1
		r := ranges[idx]
		ranges = ranges[:idx]
		f.filter.FromBlock = r.from
		f.filter.ToBlock = r.to
		tCtx, cancel := bCtx.WithTimeout(ctx, TooManyLogsTimeout)
		logs, err := f.rpcClient.FilterLogs(tCtx, f.filter)
		cancel()
		if err != nil {
			if r.from.Cmp(r.to) == 0 {
				ctx.WithFields(log.Fields{
					"err":      err,
					"from":     r.from.String(),
					"to":       r.to.String(),
					"chainId":  f.chainId,
					"contract": f.contractAddress,
				}).Error("failed to get logs within one block")
				return err
			}
			// providers reject ranges with too many logs, halve and retry
			r1, r2 := r.halve()
			ranges = append(ranges, r2, r1)
			ctx.WithFields(log.Fields{
				"chainId":       f.chainId,
				"contract":      f.contractAddress,
				"tag":           f.trackerTag,
				"originalRange": r.String(),
				"range1":        r1.String(),
				"range2":        r2.String(),
			}).Info("splitting blockRange")
			continue
		}
		ctx.WithFields(log.Fields{
			"chainId":    f.chainId,
			"contract":   f.contractAddress,
			"tag":        f.trackerTag,
			"fromBlock": r.from.String(),
			"toBlock":   r.to.String(),
			"#logs":      len(logs),
		}).Info(fmt.Sprintf("received #%d logs", len(logs)))

		// skip processed logs
		nonProcessedIndex := 0
		for _, log := range logs {
			if log.BlockNumber > f.trackerState.LastBlockProcessed {
				break
			}

			if log.BlockNumber == f.trackerState.LastBlockProcessed {
				if int64(log.Index) > f.trackerState.LastLogIndexProcessed {
					break
				}
			}
			nonProcessedIndex += 1
		}
		logs = logs[nonProcessedIndex:]

		logsWithBlockTime, err := f.toLogsWithBlockTime(ctx, logs)
		if err != nil {
			ctx.WithField("err", err).Error("f.toLogsWithBlockTime failed")
			return xerrors.Errorf("failed to inject block time: %+w", err)
		}

		batchSize := 5
		numLogs := len(logsWithBlockTime)
		i := 0
		for i < numLogs {
			j := i + batchSize
			if j > numLogs {
				j = numLogs
			}

			batchLogs := logsWithBlockTime[i:j]
			i = j

			n := len(batchLogs)
			end := batchLogs[n-1].BlockNumber
			logIndex := int64(batchLogs[n-1].Index)

			if err := f.processEvents(ctx, batchLogs, end, logIndex); err != nil {
				ctx.WithField("err", err).Error("f.processEvents failed")
				return err
			}
		}

		// update end and logIndex to end+1 and -1 of this block range
		if err := f.processEvents(ctx, nil, r.to.Uint64()+1, -1); err != nil {
			ctx.WithField("err", err).Error("f.processEvents failed")
			return err
		}
	}
	return nil
}

func (f *EventTracker) processEvents(ctx bCtx.Ctx, logsWithBlockTime []logWithBlockTime, end uint64, logIndex int64) error {
	run := func(c bCtx.Ctx) error {
		err := f.eventHandler.ProcessEvents(c, logsWithBlockTime)
		if err != nil {
			return xerrors.Errorf("failed to process events: %+w", err)
		}
		f.trackerState.LastBlockProcessed = end
		f.trackerState.LastLogIndexProcessed = logIndex
		err = f.trackerStateUseCase.Update(c, f.trackerState)
		if err != nil {
			return xerrors.Errorf("failed to store tracker state: %w", err)
		}
		return nil
	}

	return f.q.RunWithTransaction(ctx, run)
}

func (f *EventTracker) toLogsWithBlockTime(ctx bCtx.Ctx, logs []types.Log) ([]logWithBlockTime, error) {
	var (
		lastBlk  uint64
		lastTime time.Time
	)
	logsWithTime := make([]logWithBlockTime, len(logs))
	for idx, l := range logs {
		msgSender := domain.Address("")
		if f.shouldDecodeSender {
			tx, _, err := f.rpcClient.TransactionByHash(ctx, l.TxHash)
			if err != nil {
				ctx.WithFields(log.Fields{
					"err":      err,
					"chainId":  f.chainId,
					"contract": f.contractAddress,
					"txHash":   l.TxHash.Hex(),
				}).Error("TransactionByHash failed")
				return nil, err
			}
			_msgSender, err := types.Sender(f.signer, tx)
			if err != nil {
				ctx.WithFields(log.Fields{
					"err":      err,
					"chainId":  f.chainId,
					"contract": f.contractAddress,
					"txHash":   l.TxHash.Hex(),
				}).Error("types.Sender failed")
				return nil, err
			}
			msgSender = toDomainAddress(_msgSender)
		}
		if lastBlk != l.BlockNumber {
			blkTime, err := f.getBlockTime(ctx, l.BlockNumber)
			if err != nil {
				ctx.WithField("err", err).Error("failed to get blocktime")
				return nil, err
			}
			lastBlk = l.BlockNumber
			lastTime = *blkTime
		}
		logsWithTime[idx] = logWithBlockTime{Log: l, blockTime: lastTime, msgSender: msgSender}
	}
	return logsWithTime, nil
}

func (f *EventTracker) getBlockTime(ctx bCtx.Ctx, number uint64) (*time.Time, error) {
	retryCount := 20
	h, err := f.headerByNumberWithRetry(ctx, number, retryCount, time.Second)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":        err,
			"number":     number,
			"chainId":    f.chainId,
			"contract":   f.contractAddress,
			"retryCount": retryCount,
		}).Error("failed to get header")
		return nil, err
	}

	t := time.Unix(int64(h.Time), 0)
	return &t, nil
}

func (f *EventTracker) headerByNumberWithRetry(ctx bCtx.Ctx, number uint64, retryLimit int, interval time.Duration) (*types.Header, error) {
	var (
		err error
		h   *types.Header
	)
	blk := new(big.Int).SetUint64(number)
	for i := 0; i < retryLimit; i++ {
		if i > 0 {
			ctx.WithFields(log.Fields{
				"chainId":  f.chainId,
				"contract": f.contractAddress,
				"retry":    i,
				"interval": interval,
				"blk":      blk,
			}).Warn("rpcClient.HeaderByNumber failed, retry")
			select {
			case <-ctx.Done():
				ctx.WithFields(log.Fields{
					"chainId":  f.chainId,
					"contract": f.contractAddress,
					"retry":    i,
					"interval": interval,
					"blk":      blk,
				}).Error("headerByNumberWithRetry: context canceled")
				return nil, xerrors.New("context canceled")
			case <-time.After(interval):
			}
			interval *= 2
		}
		h, err = f.rpcClient.HeaderByNumber(ctx, blk)
		if err == nil {
			break
		}
	}
	return h, err
}

// getDeployedBlock binary-searches the first block where the contract has
// code, so a fresh tracker starts at deployment instead of block zero.
func getDeployedBlock(ctx bCtx.Ctx, c domain.EthClientRepo, addr common.Address) (uint64, error) {
	blk, err := c.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	l := blk
	s := blk
	for l > 0 {
		step := l / 2
		mid := s - step - 1
		b, err := c.CodeAt(ctx, addr, new(big.Int).SetUint64(mid))
		if err != nil {
			return 0, err
		}
		if len(b) > 0 {
			s = mid
			l -= step + 1
		} else {
			l = step
		}
	}
	return s, nil
}
