package performance

const (
	minNameLength = 2
	maxWeight     = 100

	// RankingSize is how many records Top and Bottom report in dashboards.
	RankingSize = 5

	NoDivisionName = "No Division"

	periodKeyLayout = "2006-01"
)

const (
	msgAssessmentNotFound = "Assessment not found"
	msgAssessmentExists   = "Assessment for this employee, KPI, and period already exists"
	msgKPINotFound        = "KPI not found"
	msgKPINameTaken       = "KPI name already exists"
	msgEmployeeNotFound   = "Employee not found"
	msgWeightRange        = "Weight must be between 0.1 and 100"
	msgTargetPositive     = "Target must be greater than 0"
	msgActualNonNegative  = "Actual value must be 0 or greater"
	msgPeriodRequired     = "Period is required"
	msgPeriodInvalid      = "Period must be a valid date (YYYY-MM or YYYY-MM-DD)"
)
