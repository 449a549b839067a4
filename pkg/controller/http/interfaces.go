package http

import "github.com/secmon-lab/idswatch/pkg/domain/interfaces"

type UseCase interface {
	interfaces.AlertUsecases
	interfaces.AuthUsecases
	interfaces.ReportUsecases
}
