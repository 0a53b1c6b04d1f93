// Package performance computes a supplier's longitudinal composite score.
//
// Each factor nudges a tiered base score up or down by a bounded amount, and
// the total is their plain sum. Factors with no supporting data contribute 0,
// so a supplier with no history starts at the base tier alone.
package performance

import (
	"fmt"

	"github.com/togengine-byte/CRM-sub003/internal/model"
	"github.com/togengine-byte/CRM-sub003/internal/stats"
)

const (
	targetRate = 80.0

	maxPriceAdjust   = 10.0
	priceFactor      = 0.5
	maxPromiseAdjust = 8.0
	promiseFactor    = 0.4
	maxCourierAdjust = 6.0
	courierFactor    = 0.3
	maxEarlyBonus    = 3.0
	maxWorkload      = 3.0
	perOpenJob       = 0.5
	maxConsistency   = 2.0
	cvFactor         = 0.1

	minJobsForConsistency = 3
)

// Score builds the ScoreReport for one supplier. openJobs is the number of
// jobs currently pending or in progress with the supplier.
func Score(supplierID int64, jobs []model.SupplierJobRecord, market model.MarketPriceStats, openJobs int) model.ScoreReport {
	var completed []model.SupplierJobRecord
	for _, j := range jobs {
		if j.Completed() {
			completed = append(completed, j)
		}
	}

	breakdown := map[string]model.SubScore{
		model.SubScoreBase:        baseScore(len(jobs)),
		model.SubScorePrice:       priceScore(market),
		model.SubScorePromise:     promiseScore(completed),
		model.SubScoreCourier:     courierScore(completed),
		model.SubScoreEarly:       earlyScore(completed),
		model.SubScoreWorkload:    workloadScore(openJobs),
		model.SubScoreConsistency: consistencyScore(completed),
	}

	total := 0.0
	for _, name := range model.SubScoreNames {
		total += breakdown[name].Value
	}

	return model.ScoreReport{
		SupplierID:    supplierID,
		TotalJobs:     len(jobs),
		CompletedJobs: len(completed),
		OpenJobs:      openJobs,
		Breakdown:     breakdown,
		TotalScore:    total,
	}
}

func baseScore(totalJobs int) model.SubScore {
	var v float64
	switch {
	case totalJobs >= 10:
		v = 100
	case totalJobs >= 5:
		v = 90
	case totalJobs >= 1:
		v = 80
	default:
		v = 70
	}
	return model.SubScore{Value: v, Description: fmt.Sprintf("%d jobs on record", totalJobs)}
}

func priceScore(m model.MarketPriceStats) model.SubScore {
	if !m.HasData() {
		return model.SubScore{Value: 0, Description: "no price data"}
	}
	diffPct := (m.MarketAvg - m.SupplierAvg) / m.MarketAvg * 100
	v := stats.Clamp(diffPct*priceFactor, -maxPriceAdjust, maxPriceAdjust)
	if diffPct >= 0 {
		return model.SubScore{Value: v, Description: fmt.Sprintf("%.1f%% below market average", diffPct)}
	}
	return model.SubScore{Value: v, Description: fmt.Sprintf("%.1f%% above market average", -diffPct)}
}

func promiseScore(completed []model.SupplierJobRecord) model.SubScore {
	withPromise, onTime := 0, 0
	for _, j := range completed {
		if j.PromisedDeliveryDays == nil {
			continue
		}
		withPromise++
		if j.OnTime() {
			onTime++
		}
	}
	if withPromise == 0 {
		return model.SubScore{Value: 0, Description: "no promised delivery dates"}
	}
	rate := float64(onTime) * 100 / float64(withPromise)
	v := stats.Clamp((rate-targetRate)*promiseFactor, -maxPromiseAdjust, maxPromiseAdjust)
	return model.SubScore{Value: v, Description: fmt.Sprintf("%d of %d on time (%.0f%%)", onTime, withPromise, rate)}
}

func courierScore(completed []model.SupplierJobRecord) model.SubScore {
	withData, confirmed := 0, 0
	for _, j := range completed {
		if j.CourierConfirmedReady == nil {
			continue
		}
		withData++
		if *j.CourierConfirmedReady {
			confirmed++
		}
	}
	if withData == 0 {
		return model.SubScore{Value: 0, Description: "no courier confirmations"}
	}
	rate := float64(confirmed) * 100 / float64(withData)
	v := stats.Clamp((rate-targetRate)*courierFactor, -maxCourierAdjust, maxCourierAdjust)
	return model.SubScore{Value: v, Description: fmt.Sprintf("%d of %d confirmed ready by courier (%.0f%%)", confirmed, withData, rate)}
}

func earlyScore(completed []model.SupplierJobRecord) model.SubScore {
	var early []float64
	for _, j := range completed {
		if j.PromisedDeliveryDays == nil {
			continue
		}
		actual, _ := j.ActualDays()
		if d := float64(*j.PromisedDeliveryDays) - actual; d > 0 {
			early = append(early, d)
		}
	}
	if len(early) == 0 {
		return model.SubScore{Value: 0, Description: "no early completions"}
	}
	avg := stats.Mean(early)
	v := avg
	if v > maxEarlyBonus {
		v = maxEarlyBonus
	}
	return model.SubScore{Value: v, Description: fmt.Sprintf("%d jobs early by %.1f days on average", len(early), avg)}
}

func workloadScore(openJobs int) model.SubScore {
	penalty := float64(openJobs) * perOpenJob
	if penalty > maxWorkload {
		penalty = maxWorkload
	}
	if penalty <= 0 {
		return model.SubScore{Value: 0, Description: "no open jobs"}
	}
	return model.SubScore{Value: -penalty, Description: fmt.Sprintf("%d open jobs", openJobs)}
}

func consistencyScore(completed []model.SupplierJobRecord) model.SubScore {
	if len(completed) < minJobsForConsistency {
		return model.SubScore{Value: 0, Description: fmt.Sprintf("needs %d completed jobs", minJobsForConsistency)}
	}
	days := make([]float64, 0, len(completed))
	for _, j := range completed {
		d, _ := j.ActualDays()
		days = append(days, d)
	}
	cv := stats.CoefficientOfVariation(days)
	v := stats.Clamp(maxConsistency-cv*cvFactor, 0, maxConsistency)
	return model.SubScore{Value: v, Description: fmt.Sprintf("delivery time variation %.1f%%", cv)}
}
