package market

// Built-in holiday tables, exchange-local calendar dates. Hand-maintained;
// future years come in through config (market.a_share_holidays /
// market.hk_holidays) rather than a code change.

var aShareHolidays = []string{
	// 2024
	"2024-01-01", // 元旦
	"2024-02-10", "2024-02-11", "2024-02-12", "2024-02-13", "2024-02-14",
	"2024-02-15", "2024-02-16", "2024-02-17", // 春节
	"2024-04-04", "2024-04-05", "2024-04-06", // 清明节
	"2024-05-01", "2024-05-02", "2024-05-03", // 劳动节
	"2024-06-10", // 端午节
	"2024-09-15", "2024-09-16", "2024-09-17", // 中秋节
	"2024-10-01", "2024-10-02", "2024-10-03", "2024-10-04", "2024-10-05",
	"2024-10-06", "2024-10-07", // 国庆节

	// 2025
	"2025-01-01", // 元旦
	"2025-01-28", "2025-01-29", "2025-01-30", "2025-01-31", "2025-02-01",
	"2025-02-02", "2025-02-03", "2025-02-04", // 春节
	"2025-04-05", "2025-04-06", "2025-04-07", // 清明节
	"2025-05-01", "2025-05-02", "2025-05-03", // 劳动节
	"2025-05-31", // 端午节
	"2025-10-01", "2025-10-02", "2025-10-03", "2025-10-04", "2025-10-05",
	"2025-10-06", "2025-10-07", // 国庆节
}

var hkHolidays = []string{
	// 2024
	"2024-01-01",                             // 新年
	"2024-02-10", "2024-02-12", "2024-02-13", // 农历新年
	"2024-03-29", // 耶稣受难节
	"2024-04-01", // 复活节星期一
	"2024-05-01", // 劳动节
	"2024-05-15", // 佛诞节
	"2024-06-10", // 端午节
	"2024-07-01", // 香港特别行政区成立纪念日
	"2024-09-18", // 中秋节翌日
	"2024-10-01", // 国庆日
	"2024-10-11", // 重阳节
	"2024-12-25", "2024-12-26", // 圣诞节

	// 2025
	"2025-01-01",                             // 新年
	"2025-01-29", "2025-01-30", "2025-01-31", // 农历新年
	"2025-04-18", // 耶稣受难节
	"2025-04-21", // 复活节星期一
	"2025-05-01", // 劳动节
	"2025-05-05", // 佛诞节
	"2025-05-31", // 端午节
	"2025-07-01", // 香港特别行政区成立纪念日
	"2025-10-01", // 国庆日
	"2025-10-07", // 重阳节
	"2025-12-25", "2025-12-26", // 圣诞节
}
