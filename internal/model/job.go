package model

import "time"

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobReady      JobStatus = "ready"
	JobDelivered  JobStatus = "delivered"
	JobCancelled  JobStatus = "cancelled"
)

// SupplierJobRecord is one historical or in-flight job placed with a supplier.
type SupplierJobRecord struct {
	ID                    int64      `json:"id" bson:"id" yaml:"id"`
	SupplierID            int64      `json:"supplier_id" bson:"supplier_id" yaml:"supplier_id"`
	CreatedAt             time.Time  `json:"created_at" bson:"created_at" yaml:"created_at"`
	PromisedDeliveryDays  *int       `json:"promised_delivery_days,omitempty" bson:"promised_delivery_days,omitempty" yaml:"promised_delivery_days,omitempty"`
	ReadyAt               *time.Time `json:"ready_at,omitempty" bson:"ready_at,omitempty" yaml:"ready_at,omitempty"`
	CourierConfirmedReady *bool      `json:"courier_confirmed_ready,omitempty" bson:"courier_confirmed_ready,omitempty" yaml:"courier_confirmed_ready,omitempty"`
	Rating                *int       `json:"rating,omitempty" bson:"rating,omitempty" yaml:"rating,omitempty"`
	Status                JobStatus  `json:"status" bson:"status" yaml:"status"`
}

// Completed reports whether the supplier has marked the work ready.
func (j SupplierJobRecord) Completed() bool {
	return j.ReadyAt != nil
}

// ActualDays is the time from creation to ready in fractional days.
// Records with readyAt before createdAt yield 0.
func (j SupplierJobRecord) ActualDays() (float64, bool) {
	if j.ReadyAt == nil {
		return 0, false
	}
	d := j.ReadyAt.Sub(j.CreatedAt).Hours() / 24
	if d < 0 {
		d = 0
	}
	return d, true
}

func (j SupplierJobRecord) OnTime() bool {
	actual, ok := j.ActualDays()
	if !ok || j.PromisedDeliveryDays == nil {
		return false
	}
	return actual <= float64(*j.PromisedDeliveryDays)
}

func (j SupplierJobRecord) Open() bool {
	return j.Status == JobPending || j.Status == JobInProgress
}

// CountOpen returns the number of jobs still pending or in progress.
func CountOpen(jobs []SupplierJobRecord) int {
	n := 0
	for _, j := range jobs {
		if j.Open() {
			n++
		}
	}
	return n
}
