package service

import (
	"context"
	"sync"

	"slip-payment-backend/internal/client"
	"slip-payment-backend/internal/model"
)

// fakeAdminClient records calls and delegates behavior to optional func
// fields; unset fields succeed with zero values.
type fakeAdminClient struct {
	mu sync.Mutex

	settings         *model.GiftSettings
	settingsErr      error
	submitErr        error
	submitFn         func(ctx context.Context, order *client.GiftOrderHandOff) error
	forwardErr       error
	statErr          error
	submittedOrders  []*client.GiftOrderHandOff
	forwardedUploads []*model.PendingUpload
	stats            []*client.SlipStat
}

func (f *fakeAdminClient) FetchGiftSettings(ctx context.Context) (*model.GiftSettings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeAdminClient) SubmitGiftOrder(ctx context.Context, order *client.GiftOrderHandOff) error {
	if f.submitFn != nil {
		if err := f.submitFn(ctx, order); err != nil {
			return err
		}
	} else if f.submitErr != nil {
		return f.submitErr
	}
	f.mu.Lock()
	f.submittedOrders = append(f.submittedOrders, order)
	f.mu.Unlock()
	return nil
}

func (f *fakeAdminClient) ReportSlipStat(ctx context.Context, stat *client.SlipStat) error {
	if f.statErr != nil {
		return f.statErr
	}
	f.mu.Lock()
	f.stats = append(f.stats, stat)
	f.mu.Unlock()
	return nil
}

func (f *fakeAdminClient) ForwardUpload(ctx context.Context, upload *model.PendingUpload) error {
	if f.forwardErr != nil {
		return f.forwardErr
	}
	f.mu.Lock()
	f.forwardedUploads = append(f.forwardedUploads, upload)
	f.mu.Unlock()
	return nil
}

func (f *fakeAdminClient) TopRankings(ctx context.Context) (*client.RankingsResult, error) {
	return &client.RankingsResult{Ranks: []client.RankEntry{}}, nil
}

func (f *fakeAdminClient) Report(ctx context.Context, category, detail string) error {
	return nil
}

func (f *fakeAdminClient) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submittedOrders)
}

func (f *fakeAdminClient) statSnapshot() []*client.SlipStat {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*client.SlipStat(nil), f.stats...)
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte, filename, languages string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
