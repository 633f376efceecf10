package gas

import (
	chamber "github.com/next-exp/wirechamber_go/pkg"
)

// Medium is a gas loaded from a gas table, optionally with ion transport.
type Medium struct {
	Table *chamber.GasTable
	Ions  *IonMobility
}

func NewMedium(table *chamber.GasTable) *Medium {
	return &Medium{Table: table}
}

func (m *Medium) LoadIonMobility(filename string) error {
	ions, err := LoadIonMobility(filename, m.Table.Conditions)
	if err != nil {
		return err
	}
	m.Ions = ions
	return nil
}

func (m *Medium) ElectronVelocity(e float64) (float64, bool) {
	return m.Table.ElectronVelocity(e)
}

func (m *Medium) ElectronTownsend(e float64) (float64, bool) {
	return m.Table.ElectronTownsend(e)
}

func (m *Medium) ElectronDiffusion(e float64) (float64, float64, bool) {
	return m.Table.ElectronDiffusion(e)
}

// IonMobility returns false when no ion mobility was loaded.
func (m *Medium) IonMobility(e float64) (float64, bool) {
	if m.Ions == nil {
		return 0, false
	}
	return m.Ions.Mobility(e)
}
