package i18n

// Chart keys stay within Latin, Greek and superscript glyphs in both tables
// because the plot fonts carry no CJK glyphs.

var zhLabels = map[string]string{
	"app.title":    "Liu 方法 拟合工具",
	"app.subtitle": "利用烧蚀直径和激光能量数据，自动拟合出光斑半径、阈值能量和通量。",
	"app.language": "English",

	"form.energy":   "输入脉冲能量 (μJ，逗号分隔)",
	"form.diameter": "输入烧蚀直径 (μm，逗号分隔)",
	"form.upload":   "或上传数据文件（CSV / Excel，两列：能量、直径，表头可选）",
	"form.submit":   "开始拟合",

	"result.success":  "拟合成功",
	"result.error":    "发生错误：",
	"result.download": "下载 Excel",
	"result.chart":    "Liu 方法拟合图",
	"result.table":    "数据表",

	"quantity.threshold_energy":  "阈值能量 E_th",
	"quantity.beam_waist":        "光斑半径 w₀",
	"quantity.threshold_fluence": "阈值通量 F_th",
	"quantity.r_squared":         "决定系数 R²",
	"quantity.slope":             "斜率",
	"quantity.intercept":         "截距",

	"table.energy":      "脉冲能量 (μJ)",
	"table.ln_energy":   "ln(E)",
	"table.diameter":    "烧蚀直径 (μm)",
	"table.diameter_sq": "D² (μm²)",

	"export.quantity": "物理量",
	"export.value":    "数值",
	"export.unit":     "单位",

	"error.length mismatch":                    "能量和直径数量不一致！",
	"error.insufficient samples":               "数据点不足，至少需要两组数据",
	"error.non-positive energy":                "能量必须为正数",
	"error.invalid diameter":                   "直径必须为非负有限数",
	"error.unparsable input":                   "无法解析输入",
	"error.missing columns":                    "缺少能量或直径列",
	"error.empty input":                        "输入为空",
	"error.degenerate fit: non-positive slope": "拟合退化：斜率不为正",
	"error.non-finite result":                  "拟合结果溢出，请检查数据",

	"location.field.energy":   "能量",
	"location.field.diameter": "直径",
	"location.item":           "第 %d 个值",
	"location.row":            "第 %d 行",
	"location.column":         "第 %d 列",
}

var enLabels = map[string]string{
	"app.title":    "Liu Method Fitting Tool",
	"app.subtitle": "Fit beam waist, threshold energy and threshold fluence from ablation diameter and pulse energy data.",
	"app.language": "中文",

	"form.energy":   "Pulse energy (μJ, comma-separated)",
	"form.diameter": "Ablation diameter (μm, comma-separated)",
	"form.upload":   "Or upload a data file (CSV / Excel, two columns: energy, diameter, header optional)",
	"form.submit":   "Fit",

	"result.success":  "Fit succeeded",
	"result.error":    "Error: ",
	"result.download": "Download Excel",
	"result.chart":    "Liu method fit",
	"result.table":    "Data table",

	"quantity.threshold_energy":  "Threshold energy E_th",
	"quantity.beam_waist":        "Beam waist w₀",
	"quantity.threshold_fluence": "Threshold fluence F_th",
	"quantity.r_squared":         "Coefficient of determination R²",
	"quantity.slope":             "Slope",
	"quantity.intercept":         "Intercept",

	"table.energy":      "Pulse Energy (μJ)",
	"table.ln_energy":   "ln(E)",
	"table.diameter":    "Ablation Diameter (μm)",
	"table.diameter_sq": "D² (μm²)",

	"export.quantity": "Quantity",
	"export.value":    "Value",
	"export.unit":     "Unit",

	"chart.title":  "Liu Method Fit",
	"chart.x":      "ln(E)",
	"chart.y":      "D² (μm²)",
	"chart.points": "Experimental data",
	"chart.line":   "Linear fit",

	"error.length mismatch":                    "energy and diameter counts differ",
	"error.insufficient samples":               "at least two samples are required",
	"error.non-positive energy":                "energies must be positive",
	"error.invalid diameter":                   "diameters must be finite and non-negative",
	"error.unparsable input":                   "input could not be parsed",
	"error.missing columns":                    "energy or diameter column missing",
	"error.empty input":                        "input is empty",
	"error.degenerate fit: non-positive slope": "degenerate fit: non-positive slope",
	"error.non-finite result":                  "fit produced a non-finite result",

	"location.field.energy":   "energy",
	"location.field.diameter": "diameter",
	"location.item":           "value %d",
	"location.row":            "row %d",
	"location.column":         "column %d",
}
