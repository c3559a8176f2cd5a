package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gflcollect/boxes-backend-go/internal/models"
)

const validCSV = `n_boite,adresse,commune,cp,conteneur,volume_moyen,semaine_1,semaine_2,semaine_3,semaine_4
1,Rue de la Paix 12,Genève,1201,Textile,6.5,5,NA,7,8
2.0,Chemin des Ouches 1 / Chemin des Sports,Vernier,1219.0,Textile,4.0,,,3,
`

func TestLoadValidCatalog(t *testing.T) {
	cat, err := Load(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	box, err := cat.Get(1)
	require.NoError(t, err)
	require.Equal(t, "Rue de la Paix 12", box.Address)
	require.Equal(t, "Genève", box.Commune)
	require.Equal(t, 6.5, box.AverageFill)
	require.Len(t, box.Weeks, models.MaxWeeks)
	require.Equal(t, 5.0, *box.Weeks[0])
	require.Nil(t, box.Weeks[1])
	require.Equal(t, 7.0, *box.Weeks[2])

	// Float-typed identifier and postal code are normalized.
	box2, err := cat.Get(2)
	require.NoError(t, err)
	require.Equal(t, 2, box2.ID)
	require.Equal(t, "1219", box2.PostalCode)
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	csv := `n_boite,adresse,commune,cp,semaine_1
1,Rue A,Genève,1201,5
`
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	require.True(t, models.IsValidation(err))
	require.Contains(t, err.Error(), "conteneur")
	require.Contains(t, err.Error(), "volume_moyen")
}

func TestLoadNoWeekColumns(t *testing.T) {
	csv := `n_boite,adresse,commune,cp,conteneur,volume_moyen
1,Rue A,Genève,1201,Textile,5
`
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	require.True(t, models.IsValidation(err))
}

func TestLoadRejectsOutOfRangeFill(t *testing.T) {
	csv := `n_boite,adresse,commune,cp,conteneur,volume_moyen,semaine_1
1,Rue A,Genève,1201,Textile,5,11
`
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	require.True(t, models.IsValidation(err))
}

func TestLoadRejectsNonIntegerID(t *testing.T) {
	csv := `n_boite,adresse,commune,cp,conteneur,volume_moyen,semaine_1
1.5,Rue A,Genève,1201,Textile,5,4
`
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	require.True(t, models.IsValidation(err))
}

func TestLoadMissingMarkers(t *testing.T) {
	csv := `n_boite,adresse,commune,cp,conteneur,volume_moyen,semaine_1,semaine_2,semaine_3,semaine_4
1,Rue A,Genève,1201,Textile,5,NA,n/a,nan,null
`
	cat, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	box, err := cat.Get(1)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.Nil(t, box.Weeks[i])
	}
}
