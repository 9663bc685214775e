package settings

import (
	"github.com/m04kA/AppointmentService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
