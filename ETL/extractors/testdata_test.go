package extractors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LilVoxy/flowmap/ETL/config"
	"github.com/stretchr/testify/require"
)

const (
	testFlowsCSV = "\ufeffrefArea,counterpartArea,rowIi,colIi,obsValue\n" +
		"DE,FR,C10,G46,10.5\n" +
		"FR,DE,C10,G46,4\n" +
		"DE,DE,C10,G46,99\n" +
		"US,FR,C10,G46,7\n" +
		"DE,ES,C20,G46,abc\n" +
		"ES,IT,C20,G46,-3\n" +
		"IT,ES,C20,C10,2.25\n"

	testCountriesCSV = "name,code,lat,lon\n" +
		"Germany,DE,51.1,10.4\n" +
		"France,FR,46.2,2.2\n" +
		"Spain,ES,40.4,-3.7\n" +
		"Germany again,DE,0,0\n" +
		"Broken,IT,x,12.5\n"

	testSectorsCSV = "code,name,level\n" +
		"C10, Manufacture of food products ,2\n" +
		"G46,Wholesale trade,2\n" +
		"C10,Duplicate,2\n"
)

// writeTestSources создает три файла-источника во временном каталоге
func writeTestSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		config.FlowsFileName:     testFlowsCSV,
		config.CountriesFileName: testCountriesCSV,
		config.SectorsFileName:   testSectorsCSV,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}
