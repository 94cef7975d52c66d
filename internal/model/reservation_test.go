package model

import "testing"

func TestReservationStateTransitions(t *testing.T) {
	cases := []struct {
		from, to ReservationState
		want     bool
	}{
		{ReservationPending, ReservationApproved, true},
		{ReservationPending, ReservationRejected, true},
		{ReservationPending, ReservationCancelled, true},
		{ReservationApproved, ReservationCancelled, true},
		{ReservationApproved, ReservationRejected, false},
		{ReservationApproved, ReservationPending, false},
		{ReservationRejected, ReservationApproved, false},
		{ReservationRejected, ReservationCancelled, false},
		{ReservationCancelled, ReservationPending, false},
		{ReservationCancelled, ReservationApproved, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestReservationStateActive(t *testing.T) {
	cases := []struct {
		state ReservationState
		want  bool
	}{
		{ReservationPending, true},
		{ReservationApproved, true},
		{ReservationRejected, false},
		{ReservationCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.state.Active(); got != tc.want {
			t.Errorf("%s.Active() = %v, want %v", tc.state, got, tc.want)
		}
	}
}

func TestBoothStatusValid(t *testing.T) {
	for _, s := range []BoothStatus{BoothFree, BoothReserved, BoothConfirmed, BoothUnsellable} {
		if !s.Valid() {
			t.Errorf("%s.Valid() = false, want true", s)
		}
	}
	if BoothStatus("SOLD").Valid() {
		t.Error(`BoothStatus("SOLD").Valid() = true, want false`)
	}
}

func TestBoothAvailable(t *testing.T) {
	cases := []struct {
		name     string
		status   BoothStatus
		sellable bool
		want     bool
	}{
		{"free sellable", BoothFree, true, true},
		{"free gated", BoothFree, false, false},
		{"reserved", BoothReserved, true, false},
		{"confirmed", BoothConfirmed, true, false},
		{"unsellable", BoothUnsellable, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Booth{Status: tc.status, Sellable: tc.sellable}
			if got := b.Available(); got != tc.want {
				t.Errorf("Available() = %v, want %v", got, tc.want)
			}
		})
	}
}
