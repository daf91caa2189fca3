package services

import (
	"errors"
	"testing"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/domain"
)

// newTestPipelineService pins the calendar around fixedNow(); the now
// argument only moves the clock, so tests can step past the closing date.
func newTestPipelineService(r *testRepos, notifier *fakeNotifier, now time.Time) PipelineService {
	return NewPipelineService(
		r.sel, r.profile, r.cand,
		testCalendar(fixedNow()), notifier,
		func() time.Time { return now },
	)
}

func TestAdvanceDrawnRoutesByTicket(t *testing.T) {
	r := setupRepos(t)
	notifier := &fakeNotifier{}
	now := fixedNow()
	svc := newTestPipelineService(r, notifier, now)

	scholar := r.seedSelection(t, domain.GenderFemale, domain.TicketScholarship, domain.StatusDrawn)
	student := r.seedSelection(t, domain.GenderMale, domain.TicketStudent, domain.StatusDrawn)
	company := r.seedSelection(t, domain.GenderFemale, domain.TicketCompany, domain.StatusDrawn)

	advanced, err := svc.AdvanceDrawn("staff@school.io")
	if err != nil {
		t.Fatalf("AdvanceDrawn() error = %v", err)
	}
	if advanced != 3 {
		t.Errorf("advanced = %d, want 3", advanced)
	}

	// scholarship ticket goes to the interview, everyone else to payment
	back, _ := r.sel.FindByID(scholar.ID)
	if back.Status != domain.StatusInterview {
		t.Errorf("scholarship status = %s, want interview", back.Status)
	}
	if back.PaymentValue != nil {
		t.Errorf("scholarship got payment data before the interview")
	}

	tests := []struct {
		id    uint
		price float64
	}{
		{student.ID, 300},
		{company.ID, 1500},
	}
	for _, tt := range tests {
		sel, err := r.sel.FindByID(tt.id)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if sel.Status != domain.StatusSelected {
			t.Errorf("selection %d status = %s, want selected", tt.id, sel.Status)
		}
		if sel.PaymentValue == nil || *sel.PaymentValue != tt.price {
			t.Errorf("selection %d payment = %v, want %v", tt.id, sel.PaymentValue, tt.price)
		}
		if sel.PaymentDueDate == nil || !sel.PaymentDueDate.Equal(now.Add(48*time.Hour)) {
			t.Errorf("selection %d due date = %v, want now+48h", tt.id, sel.PaymentDueDate)
		}
	}

	if notifier.count("selected_interview") != 1 || notifier.count("selected_payment") != 2 {
		t.Errorf("notifications = %v, want 1 interview and 2 payment", notifier.sent)
	}
}

func TestInterviewDecision(t *testing.T) {
	r := setupRepos(t)
	notifier := &fakeNotifier{}
	svc := newTestPipelineService(r, notifier, fixedNow())

	accepted := r.seedSelection(t, domain.GenderFemale, domain.TicketScholarship, domain.StatusInterview)
	if err := svc.InterviewDecision(accepted.ID, DecisionAccept, "", "staff@school.io"); err != nil {
		t.Fatalf("InterviewDecision(accept) error = %v", err)
	}
	back, _ := r.sel.FindByID(accepted.ID)
	if back.Status != domain.StatusSelected {
		t.Errorf("accepted status = %s, want selected", back.Status)
	}
	// scholarship seats are free but still carry payment data
	if back.PaymentValue == nil || *back.PaymentValue != 0 {
		t.Errorf("accepted payment = %v, want 0", back.PaymentValue)
	}

	rejected := r.seedSelection(t, domain.GenderMale, domain.TicketScholarship, domain.StatusInterview)
	if err := svc.InterviewDecision(rejected.ID, DecisionReject, "no show", "staff@school.io"); err != nil {
		t.Fatalf("InterviewDecision(reject) error = %v", err)
	}
	back, _ = r.sel.FindByID(rejected.ID)
	if back.Status != domain.StatusRejected {
		t.Errorf("rejected status = %s, want rejected", back.Status)
	}

	// wrong source status
	waiting := r.seedSelection(t, domain.GenderFemale, domain.TicketRegular, domain.StatusPassedTest)
	if err := svc.InterviewDecision(waiting.ID, DecisionAccept, "", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("decision from passed_test: error = %v, want ErrInvalidTransition", err)
	}

	// unknown verb
	another := r.seedSelection(t, domain.GenderFemale, domain.TicketScholarship, domain.StatusInterview)
	if err := svc.InterviewDecision(another.ID, "maybe", "", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unknown decision: error = %v, want ErrInvalidTransition", err)
	}
}

func TestPaymentDecision(t *testing.T) {
	r := setupRepos(t)
	notifier := &fakeNotifier{}
	svc := newTestPipelineService(r, notifier, fixedNow())

	tests := []struct {
		decision   string
		wantStatus string
		wantMail   string
	}{
		{DecisionAccept, domain.StatusAccepted, "payment_accepted"},
		{DecisionReject, domain.StatusRejected, "payment_refused"},
		{DecisionAskAdditional, domain.StatusSelected, "payment_needs_proof"},
	}

	for _, tt := range tests {
		t.Run(tt.decision, func(t *testing.T) {
			sel := r.seedSelection(t, domain.GenderFemale, domain.TicketRegular, domain.StatusToBeAccepted)
			if err := svc.PaymentDecision(sel.ID, tt.decision, "checked", "staff@school.io"); err != nil {
				t.Fatalf("PaymentDecision(%s) error = %v", tt.decision, err)
			}
			back, _ := r.sel.FindByID(sel.ID)
			if back.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", back.Status, tt.wantStatus)
			}
			if notifier.count(tt.wantMail) != 1 {
				t.Errorf("%s notifications = %d, want 1", tt.wantMail, notifier.count(tt.wantMail))
			}
		})
	}

	sel := r.seedSelection(t, domain.GenderFemale, domain.TicketRegular, domain.StatusSelected)
	if err := svc.PaymentDecision(sel.ID, DecisionAccept, "", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("decision from selected: error = %v, want ErrInvalidTransition", err)
	}
}

func TestTriggerAdmissionsAreOver(t *testing.T) {
	r := setupRepos(t)
	notifier := &fakeNotifier{}
	now := fixedNow()

	waiting := r.seedSelection(t, domain.GenderFemale, domain.TicketRegular, domain.StatusPassedTest)
	open := r.seedSelection(t, domain.GenderMale, domain.TicketRegular, domain.StatusDrawn)
	done := r.seedSelection(t, domain.GenderFemale, domain.TicketRegular, domain.StatusAccepted)

	// before the closing date
	early := newTestPipelineService(r, notifier, now)
	if _, err := early.TriggerAdmissionsAreOver(""); !errors.Is(err, ErrAdmissionsStillOpen) {
		t.Fatalf("early trigger: error = %v, want ErrAdmissionsStillOpen", err)
	}

	// after closing but with an unresolved DRAWN record
	late := newTestPipelineService(r, notifier, now.Add(2*time.Hour))
	if _, err := late.TriggerAdmissionsAreOver(""); !errors.Is(err, ErrOpenSelectionsExist) {
		t.Fatalf("with open draw: error = %v, want ErrOpenSelectionsExist", err)
	}

	// resolve the open one, then the trigger may run
	open.Status = domain.StatusAccepted
	if err := r.sel.SaveSelection(open); err != nil {
		t.Fatalf("resolve open selection: %v", err)
	}

	closed, err := late.TriggerAdmissionsAreOver("staff@school.io")
	if err != nil {
		t.Fatalf("TriggerAdmissionsAreOver() error = %v", err)
	}
	if closed != 1 {
		t.Errorf("closed = %d, want 1", closed)
	}

	back, _ := r.sel.FindByID(waiting.ID)
	if back.Status != domain.StatusNotSelected {
		t.Errorf("waiting status = %s, want not_selected", back.Status)
	}
	back, _ = r.sel.FindByID(done.ID)
	if back.Status != domain.StatusAccepted {
		t.Errorf("final status was touched: %s", back.Status)
	}
	if notifier.count("not_selected") != 1 {
		t.Errorf("not_selected notifications = %d, want 1", notifier.count("not_selected"))
	}
}

func TestTriggerAdmissionsAreOverRollsBackOnFailure(t *testing.T) {
	r := setupRepos(t)
	notifier := &fakeNotifier{}
	waiting := r.seedSelection(t, domain.GenderFemale, domain.TicketRegular, domain.StatusPassedTest)

	// break the audit-log insert; the status write must not survive alone
	if err := r.db.Migrator().DropTable(&domain.SelectionLog{}); err != nil {
		t.Fatalf("drop selection_logs: %v", err)
	}

	svc := newTestPipelineService(r, notifier, fixedNow().Add(2*time.Hour))
	if _, err := svc.TriggerAdmissionsAreOver("staff@school.io"); err == nil {
		t.Fatal("TriggerAdmissionsAreOver() expected an error")
	}

	back, err := r.sel.FindByID(waiting.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if back.Status != domain.StatusPassedTest {
		t.Errorf("status = %s, want passed_test after the rolled-back run", back.Status)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("notifications = %v, want none", notifier.sent)
	}
}
