package enquiry

import (
	"github.com/m04kA/SMC-BanquetService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
