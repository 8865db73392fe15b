package memory

import (
	"strconv"

	"titipsini/internal/core"
)

// DemoAnchor is the fixed "today" the demo ledger was written against.
var DemoAnchor = core.NewDate(2025, 4, 6)

// DemoTransactions returns the demo ledger, newest first.
func DemoTransactions() []core.Transaction {
	return []core.Transaction{
		tx("TRX-001", 2025, 4, 6, core.DirectionIn, 250_000, "Penitipan Koper - Mitra Sentosa"),
		tx("TRX-002", 2025, 4, 5, core.DirectionOut, 75_000, "Biaya Kurir Penjemputan"),
		tx("TRX-003", 2025, 4, 3, core.DirectionIn, 150_000, "Penitipan Laptop - Cabang Dago"),
		tx("TRX-004", 2025, 4, 1, core.DirectionIn, 500_000, "Iuran Bulanan Mitra Berkah"),
		tx("TRX-005", 2025, 3, 31, core.DirectionOut, 120_000, "Pengembalian Dana Pelanggan"),
		tx("TRX-006", 2025, 3, 30, core.DirectionIn, 90_000, "Penitipan Dokumen - Cabang Kemang"),
		tx("TRX-007", 2025, 3, 28, core.DirectionOut, 800_000, "Sewa Gudang Cabang Bekasi"),
		tx("TRX-008", 2025, 3, 15, core.DirectionIn, 400_000, "Penitipan Perhiasan - Mitra Amanah"),
		tx("TRX-009", 2025, 2, 20, core.DirectionOut, 200_000, "Perawatan Loker Penyimpanan"),
		tx("TRX-010", 2025, 1, 10, core.DirectionIn, 1_200_000, "Iuran Tahunan Mitra Jaya"),
		tx("TRX-011", 2024, 12, 28, core.DirectionIn, 350_000, "Penitipan Motor - Cabang Depok"),
		tx("TRX-012", 2024, 11, 18, core.DirectionOut, 300_000, "Biaya Asuransi Barang Titipan"),
	}
}

func tx(id string, y, m, d int, dir core.Direction, amount int64, title string) core.Transaction {
	return core.Transaction{
		ID:        id,
		Title:     title,
		Date:      core.NewDate(y, m, d),
		Direction: dir,
		Amount:    core.Money{Units: amount},
	}
}

// WeekSeries is seven days, Monday first.
func WeekSeries() []core.SeriesPoint {
	labels := core.WeekdayLabels()
	out := make([]core.SeriesPoint, len(labels))
	for i, l := range labels {
		out[i] = core.SeriesPoint{
			Label:      l,
			Elektronik: int64(12 + (i*5)%17),
			Dokumen:    int64(8 + (i*3)%11),
			Perhiasan:  int64(5 + (i*7)%13),
		}
	}
	return out
}

// MonthSeries is thirty daily buckets labelled by day of month.
func MonthSeries() []core.SeriesPoint {
	out := make([]core.SeriesPoint, 30)
	for i := range out {
		out[i] = core.SeriesPoint{
			Label:      strconv.Itoa(i + 1),
			Elektronik: int64(30 + (i*7)%23),
			Dokumen:    int64(20 + (i*11)%19),
			Perhiasan:  int64(10 + (i*5)%17),
		}
	}
	return out
}

// YearSeries is twelve monthly buckets.
func YearSeries() []core.SeriesPoint {
	labels := core.MonthLabels()
	out := make([]core.SeriesPoint, len(labels))
	for i, l := range labels {
		out[i] = core.SeriesPoint{
			Label:      l,
			Elektronik: int64(300 + (i*37)%150),
			Dokumen:    int64(200 + (i*53)%120),
			Perhiasan:  int64(100 + (i*29)%90),
		}
	}
	return out
}

// DemoMetrics are the headline cards.
func DemoMetrics() []core.Metric {
	return []core.Metric{
		{Label: "Mitra Aktif", Value: 128},
		{Label: "Tersuspend", Value: 7},
		{Label: "Cabang Terdaftar", Value: 341},
		{Label: "Transaksi Hari Ini", Value: 213},
	}
}

// DemoReminders are the system notices.
func DemoReminders() []core.Reminder {
	return []core.Reminder{
		{Title: "3 mitra H-3 menuju jatuh tempo iuran", Type: "iuran"},
		{Title: "2 pendaftaran mitra menunggu verifikasi", Type: "verifikasi"},
		{Title: "1 cabang terindikasi tidak valid", Type: "audit"},
	}
}
