package entity

// Level identifica el punto físico donde se almacena inventario.
type Level string

// Niveles del inventario de tres escalones: bodega central → operario de ruta → máquina.
const (
	LevelWarehouse Level = "WAREHOUSE"
	LevelOperator  Level = "OPERATOR"
	LevelMachine   Level = "MACHINE"
)

// Valid indica si el nivel pertenece al conjunto cerrado.
func (l Level) Valid() bool {
	switch l {
	case LevelWarehouse, LevelOperator, LevelMachine:
		return true
	}
	return false
}

// LevelRef identifica una instancia de nivel: (nivel, id del operario o de la
// máquina; para WAREHOUSE el id de la organización).
type LevelRef struct {
	Level Level
	RefID string
}

// Tuple identifica una posición de saldo: (nivel, referencia del nivel, nomenclatura).
// Para WAREHOUSE la referencia es el ID de la organización (bodega única por organización);
// para OPERATOR/MACHINE es el ID del operario o de la máquina.
type Tuple struct {
	Level          Level
	LevelRefID     string
	NomenclatureID string
}

// Key devuelve la clave canónica de la tupla. Se usa para ordenar los bloqueos
// de fila de forma determinista y evitar deadlocks entre traslados concurrentes.
func (t Tuple) Key() string {
	return string(t.Level) + "|" + t.LevelRefID + "|" + t.NomenclatureID
}
