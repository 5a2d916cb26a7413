package subscription

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Omarzahran17/gym-flow-sub000/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListPlans(ctx context.Context, activeOnly bool) ([]Plan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Plan), args.Error(1)
}

func (m *MockRepository) GetPlan(ctx context.Context, id int) (*Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) CreatePlan(ctx context.Context, p Plan) (*Plan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) LockMember(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetActive(ctx context.Context, memberID int, now time.Time, forUpdate bool) (*ActiveSubscription, error) {
	args := m.Called(ctx, memberID, now, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ActiveSubscription), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, memberID, planID int, start, end time.Time) (*MemberSubscription, error) {
	args := m.Called(ctx, memberID, planID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MemberSubscription), args.Error(1)
}

func (m *MockRepository) CancelActive(ctx context.Context, memberID int) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountClassesBetween(ctx context.Context, memberID int, from, to string) (int, error) {
	args := m.Called(ctx, memberID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountCheckInsOn(ctx context.Context, memberID int, day string) (int, error) {
	args := m.Called(ctx, memberID, day)
	return args.Int(0), args.Error(1)
}

type MockCharger struct {
	mock.Mock
}

func (m *MockCharger) Charge(ctx context.Context, userID int, amountCents int64, txType string) (*wallet.Transaction, error) {
	args := m.Called(ctx, userID, amountCents, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Wednesday 2024-03-13 10:00 UTC; its week runs 2024-03-10..2024-03-16.
var fixedNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func newTestService(repo *MockRepository, charger *MockCharger) *service {
	svc := NewService(repo, inlineTx{}, charger, time.UTC).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func activeOn(plan Plan) *ActiveSubscription {
	return &ActiveSubscription{
		MemberSubscription: MemberSubscription{ID: 1, MemberID: 7, PlanID: plan.ID, Status: StatusActive},
		Plan:               plan,
	}
}

func TestService_Status(t *testing.T) {
	basic := Plan{ID: 1, Name: "Basic", MaxClassesPerWeek: 8, MaxCheckInsPerDay: 1}
	unlimited := Plan{ID: 3, Name: "Unlimited", MaxClassesPerWeek: 999, MaxCheckInsPerDay: 999}

	tests := []struct {
		name          string
		active        *ActiveSubscription
		classes       int
		checkIns      int
		wantActive    bool
		wantRemaining int
		wantCheckIn   bool
		wantCanBook   bool
	}{
		{
			name:          "basic plan with quota left",
			active:        activeOn(basic),
			classes:       2,
			wantActive:    true,
			wantRemaining: 6,
			wantCheckIn:   true,
			wantCanBook:   true,
		},
		{
			name:          "basic plan exhausted",
			active:        activeOn(basic),
			classes:       8,
			checkIns:      1,
			wantActive:    true,
			wantRemaining: 0,
			wantCheckIn:   false,
			wantCanBook:   false,
		},
		{
			name:          "over quota clamps at zero",
			active:        activeOn(basic),
			classes:       11,
			wantActive:    true,
			wantRemaining: 0,
			wantCheckIn:   true,
		},
		{
			name:          "unlimited never blocks",
			active:        activeOn(unlimited),
			classes:       4000,
			checkIns:      5000,
			wantActive:    true,
			wantRemaining: 999,
			wantCheckIn:   true,
			wantCanBook:   true,
		},
		{
			name:    "no subscription",
			classes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.active != nil {
				repo.On("GetActive", mock.Anything, 7, fixedNow, false).Return(tt.active, nil)
			} else {
				repo.On("GetActive", mock.Anything, 7, fixedNow, false).Return(nil, ErrNoActiveSubscription)
			}
			repo.On("CountClassesBetween", mock.Anything, 7, "2024-03-10", "2024-03-16").Return(tt.classes, nil)
			repo.On("CountCheckInsOn", mock.Anything, 7, "2024-03-13").Return(tt.checkIns, nil)

			st, err := newTestService(repo, nil).Status(context.Background(), 7)

			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, st.HasSubscription)
			assert.Equal(t, tt.wantActive, st.IsActive)
			assert.Equal(t, tt.classes, st.Usage.ClassesThisWeek)
			assert.Equal(t, tt.checkIns, st.Usage.CheckInsToday)
			assert.Equal(t, tt.wantRemaining, st.Limits.ClassesRemaining)
			assert.Equal(t, tt.wantCheckIn, st.Limits.CanCheckIn)
			assert.Equal(t, tt.wantCanBook, st.CanBookClass())
			if tt.active == nil {
				assert.Nil(t, st.Plan)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Status_UsesGymTimezoneForToday(t *testing.T) {
	// 23:30 UTC on Saturday is already Sunday in Auckland: a new week.
	loc, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	now := time.Date(2024, 3, 16, 23, 30, 0, 0, time.UTC)

	repo := new(MockRepository)
	repo.On("GetActive", mock.Anything, 7, now, false).Return(nil, ErrNoActiveSubscription)
	repo.On("CountClassesBetween", mock.Anything, 7, "2024-03-17", "2024-03-23").Return(0, nil)
	repo.On("CountCheckInsOn", mock.Anything, 7, "2024-03-17").Return(0, nil)

	svc := NewService(repo, inlineTx{}, nil, loc).(*service)
	svc.now = func() time.Time { return now }

	_, err = svc.Status(context.Background(), 7)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_LockedStatus_WeekOfGivenDay(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetActive", mock.Anything, 7, fixedNow, true).Return(activeOn(Plan{MaxClassesPerWeek: 3, MaxCheckInsPerDay: 1}), nil)
	repo.On("CountClassesBetween", mock.Anything, 7, "2024-03-17", "2024-03-23").Return(3, nil)
	repo.On("CountCheckInsOn", mock.Anything, 7, "2024-03-20").Return(0, nil)

	day := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	st, err := newTestService(repo, nil).LockedStatus(context.Background(), 7, day)

	require.NoError(t, err)
	assert.False(t, st.CanBookClass())
	repo.AssertExpectations(t)
}

func TestService_Purchase(t *testing.T) {
	plan := &Plan{ID: 2, Name: "Premium", PriceCents: 5900, Interval: IntervalMonthly, IsActive: true}
	end := fixedNow.AddDate(0, 1, 0)

	repo := new(MockRepository)
	charger := new(MockCharger)
	repo.On("LockMember", mock.Anything, 7).Return(true, nil)
	repo.On("GetPlan", mock.Anything, 2).Return(plan, nil)
	repo.On("GetActive", mock.Anything, 7, fixedNow, true).Return(nil, ErrNoActiveSubscription)
	repo.On("CancelActive", mock.Anything, 7).Return(int64(0), nil)
	repo.On("Create", mock.Anything, 7, 2, fixedNow, end).Return(&MemberSubscription{ID: 10, MemberID: 7, PlanID: 2}, nil)
	charger.On("Charge", mock.Anything, 7, int64(5900), wallet.TxSubscriptionPayment).Return(&wallet.Transaction{ID: 1}, nil)

	resp, err := newTestService(repo, charger).Purchase(context.Background(), 7, 2)

	require.NoError(t, err)
	assert.Equal(t, 10, resp.Subscription.ID)
	assert.Equal(t, int64(5900), resp.AmountCents)
	repo.AssertExpectations(t)
	charger.AssertExpectations(t)
}

func TestService_Purchase_LocksMemberBeforeReadingActive(t *testing.T) {
	plan := &Plan{ID: 2, Name: "Premium", PriceCents: 5900, IsActive: true}

	var order []string
	repo := new(MockRepository)
	charger := new(MockCharger)
	repo.On("LockMember", mock.Anything, 7).Return(true, nil).
		Run(func(mock.Arguments) { order = append(order, "lock") })
	repo.On("GetPlan", mock.Anything, 2).Return(plan, nil)
	repo.On("GetActive", mock.Anything, 7, fixedNow, true).Return(nil, ErrNoActiveSubscription).
		Run(func(mock.Arguments) { order = append(order, "active") })
	repo.On("CancelActive", mock.Anything, 7).Return(int64(0), nil)
	repo.On("Create", mock.Anything, 7, 2, mock.Anything, mock.Anything).Return(&MemberSubscription{ID: 10}, nil)
	charger.On("Charge", mock.Anything, 7, int64(5900), wallet.TxSubscriptionPayment).Return(&wallet.Transaction{ID: 1}, nil)

	_, err := newTestService(repo, charger).Purchase(context.Background(), 7, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "active"}, order)
}

func TestService_Purchase_ConflictSkipsCharge(t *testing.T) {
	plan := &Plan{ID: 2, PriceCents: 5900, IsActive: true}

	repo := new(MockRepository)
	charger := new(MockCharger)
	repo.On("LockMember", mock.Anything, 7).Return(true, nil)
	repo.On("GetPlan", mock.Anything, 2).Return(plan, nil)
	repo.On("GetActive", mock.Anything, 7, fixedNow, true).Return(nil, ErrNoActiveSubscription)
	repo.On("CancelActive", mock.Anything, 7).Return(int64(0), nil)
	repo.On("Create", mock.Anything, 7, 2, mock.Anything, mock.Anything).Return(nil, ErrSubscriptionConflict)

	_, err := newTestService(repo, charger).Purchase(context.Background(), 7, 2)

	assert.ErrorIs(t, err, ErrSubscriptionConflict)
	charger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Purchase_InsufficientBalance(t *testing.T) {
	plan := &Plan{ID: 2, PriceCents: 5900, IsActive: true}

	repo := new(MockRepository)
	charger := new(MockCharger)
	repo.On("LockMember", mock.Anything, 7).Return(true, nil)
	repo.On("GetPlan", mock.Anything, 2).Return(plan, nil)
	repo.On("GetActive", mock.Anything, 7, fixedNow, true).Return(nil, ErrNoActiveSubscription)
	repo.On("CancelActive", mock.Anything, 7).Return(int64(0), nil)
	repo.On("Create", mock.Anything, 7, 2, mock.Anything, mock.Anything).Return(&MemberSubscription{ID: 10}, nil)
	charger.On("Charge", mock.Anything, 7, int64(5900), wallet.TxSubscriptionPayment).Return(nil, wallet.ErrInsufficientBalance)

	_, err := newTestService(repo, charger).Purchase(context.Background(), 7, 2)

	assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)
}

func TestService_Purchase_InactivePlan(t *testing.T) {
	repo := new(MockRepository)
	repo.On("LockMember", mock.Anything, 7).Return(true, nil)
	repo.On("GetPlan", mock.Anything, 2).Return(&Plan{ID: 2, IsActive: false}, nil)

	_, err := newTestService(repo, new(MockCharger)).Purchase(context.Background(), 7, 2)

	assert.ErrorIs(t, err, ErrPlanInactive)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Assign_YearlyPeriod(t *testing.T) {
	plan := &Plan{ID: 4, Name: "Annual", Interval: IntervalYearly, IsActive: true}

	repo := new(MockRepository)
	repo.On("LockMember", mock.Anything, 7).Return(true, nil)
	repo.On("GetPlan", mock.Anything, 4).Return(plan, nil)
	repo.On("GetActive", mock.Anything, 7, fixedNow, true).Return(activeOn(Plan{ID: 1}), nil)
	repo.On("CancelActive", mock.Anything, 7).Return(int64(1), nil)
	repo.On("Create", mock.Anything, 7, 4, fixedNow, fixedNow.AddDate(1, 0, 0)).Return(&MemberSubscription{ID: 11}, nil)

	sub, err := newTestService(repo, nil).Assign(context.Background(), 7, 4)

	require.NoError(t, err)
	assert.Equal(t, 11, sub.ID)
	repo.AssertExpectations(t)
}

func TestService_Assign_NotAMember(t *testing.T) {
	repo := new(MockRepository)
	repo.On("LockMember", mock.Anything, 3).Return(false, nil)

	_, err := newTestService(repo, nil).Assign(context.Background(), 3, 1)

	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestService_Cancel_NothingActive(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CancelActive", mock.Anything, 7).Return(int64(0), nil)

	err := newTestService(repo, nil).Cancel(context.Background(), 7)

	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestService_CreatePlan_DefaultTier(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CreatePlan", mock.Anything, mock.MatchedBy(func(p Plan) bool {
		return p.Tier == "basic" && p.MaxClassesPerWeek == 3
	})).Return(&Plan{ID: 9}, nil)

	p, err := newTestService(repo, nil).CreatePlan(context.Background(), CreatePlanRequest{
		Name:              "Trial",
		Interval:          IntervalMonthly,
		MaxClassesPerWeek: 3,
		MaxCheckInsPerDay: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 9, p.ID)
}

func TestStatus_Covers(t *testing.T) {
	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)

	// 2024-03-20 11:30 UTC is already 2024-03-21 in Auckland.
	end := time.Date(2024, 3, 20, 11, 30, 0, 0, time.UTC)
	st := &Status{IsActive: true, Subscription: &MemberSubscription{EndDate: end}}

	assert.True(t, st.Covers(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), time.UTC))
	assert.False(t, st.Covers(time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC), time.UTC))
	assert.True(t, st.Covers(time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC), auckland))

	assert.False(t, (&Status{}).Covers(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), time.UTC))
}
