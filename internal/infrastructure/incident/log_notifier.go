package incident

import (
	"context"

	appinv "github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/pkg/logger"
)

var _ appinv.IncidentNotifier = (*LogNotifier)(nil)

// LogNotifier emite las incidencias del motor al log estructurado. Es el
// destino por defecto; un despliegue puede sustituirlo por un notificador
// hacia un sistema de tickets sin tocar el motor.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotifyDiscrepancy registra el evento. Nunca falla ni bloquea la operación
// que lo originó.
func (n *LogNotifier) NotifyDiscrepancy(_ context.Context, event appinv.IncidentEvent) {
	n.log.Warn().
		Str("incident_type", event.Type).
		Str("nomenclature_id", event.NomenclatureID).
		Str("level", string(event.Level)).
		Str("level_ref_id", event.LevelRefID).
		Str("expected", event.Expected.String()).
		Str("actual", event.Actual.String()).
		Msg("incidencia de inventario")
}
