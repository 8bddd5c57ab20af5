package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/lendq/x/liquidation/types"
)

// SetBid saves a bid and its bidder index entry
func (k *Keeper) SetBid(ctx sdk.Context, bid *types.Bid) {
	store := k.GetStore(ctx)
	setJSON(store, types.BidKey(bid.Idx), bid)
	store.Set(types.BidsByUserKey(bid.CollateralToken, bid.Owner, bid.Idx), []byte{0x01})
}

// GetBid returns a bid by idx
func (k *Keeper) GetBid(ctx sdk.Context, idx uint64) (*types.Bid, error) {
	bid, ok := getJSON[types.Bid](k.GetStore(ctx), types.BidKey(idx))
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrBidNotFound, "idx %d", idx)
	}
	return bid, nil
}

// RemoveBid deletes a bid and its bidder index entry
func (k *Keeper) RemoveBid(ctx sdk.Context, bid *types.Bid) {
	store := k.GetStore(ctx)
	store.Delete(types.BidKey(bid.Idx))
	store.Delete(types.BidsByUserKey(bid.CollateralToken, bid.Owner, bid.Idx))
}

// saveOrRemoveBid drops bids with nothing left to withdraw or claim
func (k *Keeper) saveOrRemoveBid(ctx sdk.Context, bid *types.Bid) {
	if bid.IsClosed() {
		k.RemoveBid(ctx, bid)
		k.logger.Debug("Bid closed", "idx", bid.Idx, "owner", bid.Owner)
		return
	}
	k.SetBid(ctx, bid)
}

// GetBidsByUser returns a bidder's bids for a collateral in idx order,
// starting after startAfter (0 means from the first), up to limit bids
// (0 means all)
func (k *Keeper) GetBidsByUser(ctx sdk.Context, collateral, bidder string, startAfter uint64, limit int) []*types.Bid {
	store := k.GetStore(ctx)
	var after []byte
	if startAfter > 0 {
		after = types.Uint64ToBytes(startAfter)
	}

	idxs := []uint64{}
	iterator := prefixIterator(store, types.BidsByUserPrefix(collateral, bidder), after)
	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		idxs = append(idxs, types.BytesToUint64(iterator.Key()))
		if limit > 0 && len(idxs) >= limit {
			break
		}
	}

	bids := make([]*types.Bid, 0, len(idxs))
	for _, idx := range idxs {
		if bid, err := k.GetBid(ctx, idx); err == nil {
			bids = append(bids, bid)
		}
	}
	return bids
}

// GetAllBids returns every bid in idx order
func (k *Keeper) GetAllBids(ctx sdk.Context) []types.Bid {
	bids := []types.Bid{}
	iterateJSON(k.GetStore(ctx), types.BidKeyPrefix, nil, func(_ []byte, bid *types.Bid) bool {
		bids = append(bids, *bid)
		return false
	})
	return bids
}

// CreateBid stores a new waiting bid under the next idx
func (k *Keeper) CreateBid(ctx sdk.Context, bidder, collateral string, slot uint32, amount math.Int, waitEnd int64) *types.Bid {
	idx := k.nextSequence(ctx, types.BidIdxSequenceKey)
	bid := types.NewBid(idx, bidder, collateral, slot, amount, waitEnd)
	k.SetBid(ctx, bid)
	return bid
}

// ActivateBid moves a waiting bid's stable into its slot pool
func (k *Keeper) ActivateBid(ctx sdk.Context, bid *types.Bid, info types.CollateralInfo) (math.LegacyDec, error) {
	if bid.IsActive() {
		return math.LegacyZeroDec(), nil
	}
	pool := k.GetOrInitBidPool(ctx, info, bid.PremiumSlot)
	share, err := k.DepositToPool(ctx, pool, bid.Amount)
	if err != nil {
		return share, errorsmod.Wrapf(err, "activate bid %d", bid.Idx)
	}
	bid.Activate(share, pool)
	k.SetBid(ctx, bid)
	return share, nil
}

// CheckpointBid accrues an active bid against its pool and returns the pool
func (k *Keeper) CheckpointBid(ctx sdk.Context, bid *types.Bid) (*types.BidPool, error) {
	pool, err := k.GetBidPool(ctx, bid.CollateralToken, bid.PremiumSlot)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrBidInvariant, "active bid %d has no pool", bid.Idx)
	}
	var retired *types.EpochRecord
	if bid.Epoch < pool.Epoch {
		retired = k.GetEpochRecord(ctx, bid.CollateralToken, bid.PremiumSlot, bid.Epoch)
	}
	if err := bid.Checkpoint(pool, retired); err != nil {
		return nil, err
	}
	return pool, nil
}

// ReduceBidShare burns share of an up to date bid and withdraws amount of
// stable from its pool
func (k *Keeper) ReduceBidShare(ctx sdk.Context, bid *types.Bid, pool *types.BidPool, share math.LegacyDec, amount math.Int) error {
	if share.GT(bid.Share) {
		return errorsmod.Wrapf(types.ErrBidInvariant, "burn %s share of bid %d holding %s", share, bid.Idx, bid.Share)
	}
	if err := k.WithdrawFromPool(ctx, pool, share, amount); err != nil {
		return err
	}
	bid.Share = bid.Share.Sub(share)
	return nil
}

// withAccrualCheckpoint brings an active bid up to date, runs fn against its
// pool and saves the bid, removing it once closed. No share of the bid may
// change outside this scope.
func (k *Keeper) withAccrualCheckpoint(ctx sdk.Context, bid *types.Bid, fn func(pool *types.BidPool) error) error {
	pool, err := k.CheckpointBid(ctx, bid)
	if err != nil {
		return err
	}
	if err := fn(pool); err != nil {
		return err
	}
	k.saveOrRemoveBid(ctx, bid)
	return nil
}

// loadOwnedBids resolves explicit idxs, or every bid of the bidder for the
// collateral when idxs is empty
func (k *Keeper) loadOwnedBids(ctx sdk.Context, bidder, collateral string, idxs []uint64) ([]*types.Bid, error) {
	if len(idxs) == 0 {
		return k.GetBidsByUser(ctx, collateral, bidder, 0, 0), nil
	}

	bids := make([]*types.Bid, 0, len(idxs))
	seen := make(map[uint64]bool, len(idxs))
	for _, idx := range idxs {
		if seen[idx] {
			continue
		}
		seen[idx] = true

		bid, err := k.GetBid(ctx, idx)
		if err != nil {
			return nil, err
		}
		if bid.Owner != bidder {
			return nil, errorsmod.Wrapf(types.ErrNotBidOwner, "bid %d", idx)
		}
		if bid.CollateralToken != collateral {
			return nil, errorsmod.Wrapf(types.ErrBidCollateralMismatch, "bid %d is for %s", idx, bid.CollateralToken)
		}
		bids = append(bids, bid)
	}
	return bids, nil
}
