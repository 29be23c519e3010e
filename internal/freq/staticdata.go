package freq

import "strings"

// brazilianAirports is the static fallback frequency table for the main
// Brazilian airports, keyed by ICAO code. Source: AIP Brasil / DECEA.
// Training data only; frequencies may be out of date for real operations.
var brazilianAirports = map[string][]Frequency{
	// São Paulo - Guarulhos
	"SBGR": {
		{Type: ATIS, Frequency: "127.750", Name: "ATIS Guarulhos"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Guarulhos"},
		{Type: GND, Frequency: "121.650", Name: "Solo Guarulhos"},
		{Type: TWR, Frequency: "132.100", Name: "Torre Guarulhos"},
		{Type: APP, Frequency: "119.100", Name: "Aproximação São Paulo"},
		{Type: DEP, Frequency: "119.400", Name: "Controle São Paulo"},
	},

	// São Paulo - Congonhas
	"SBSP": {
		{Type: ATIS, Frequency: "127.650", Name: "ATIS Congonhas"},
		{Type: CLR, Frequency: "121.050", Name: "Tráfego Congonhas"},
		{Type: GND, Frequency: "121.900", Name: "Solo Congonhas"},
		{Type: TWR, Frequency: "118.100", Name: "Torre Congonhas"},
		{Type: APP, Frequency: "119.100", Name: "Aproximação São Paulo"},
		{Type: DEP, Frequency: "127.150", Name: "Controle São Paulo"},
	},

	// Rio de Janeiro - Santos Dumont
	"SBRJ": {
		{Type: ATIS, Frequency: "132.650", Name: "ATIS Santos Dumont"},
		{Type: CLR, Frequency: "121.050", Name: "Tráfego Santos Dumont"},
		{Type: GND, Frequency: "121.750", Name: "Solo Santos Dumont"},
		{Type: TWR, Frequency: "118.700", Name: "Torre Santos Dumont"},
		{Type: APP, Frequency: "119.000", Name: "Aproximação Rio"},
		{Type: DEP, Frequency: "119.500", Name: "Controle Rio"},
	},

	// Rio de Janeiro - Galeão
	"SBGL": {
		{Type: ATIS, Frequency: "127.600", Name: "ATIS Galeão"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Galeão"},
		{Type: GND, Frequency: "121.650", Name: "Solo Galeão"},
		{Type: TWR, Frequency: "118.000", Name: "Torre Galeão"},
		{Type: APP, Frequency: "119.000", Name: "Aproximação Rio"},
		{Type: DEP, Frequency: "119.500", Name: "Controle Rio"},
	},

	// Brasília
	"SBBR": {
		{Type: ATIS, Frequency: "127.800", Name: "ATIS Brasília"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Brasília"},
		{Type: GND, Frequency: "121.800", Name: "Solo Brasília"},
		{Type: TWR, Frequency: "118.100", Name: "Torre Brasília"},
		{Type: APP, Frequency: "119.000", Name: "Aproximação Brasília"},
		{Type: DEP, Frequency: "120.200", Name: "Controle Brasília"},
	},

	// Campinas - Viracopos
	"SBKP": {
		{Type: ATIS, Frequency: "127.575", Name: "ATIS Viracopos"},
		{Type: CLR, Frequency: "121.200", Name: "Tráfego Viracopos"},
		{Type: GND, Frequency: "121.700", Name: "Solo Viracopos"},
		{Type: TWR, Frequency: "118.350", Name: "Torre Viracopos"},
		{Type: APP, Frequency: "119.100", Name: "Aproximação São Paulo"},
		{Type: DEP, Frequency: "121.350", Name: "Controle São Paulo"},
	},

	// Belo Horizonte - Confins
	"SBCF": {
		{Type: ATIS, Frequency: "127.850", Name: "ATIS Confins"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Confins"},
		{Type: GND, Frequency: "121.950", Name: "Solo Confins"},
		{Type: TWR, Frequency: "118.200", Name: "Torre Confins"},
		{Type: APP, Frequency: "119.400", Name: "Aproximação Belo Horizonte"},
		{Type: DEP, Frequency: "125.550", Name: "Controle Belo Horizonte"},
	},

	// Belo Horizonte - Pampulha
	"SBBH": {
		{Type: ATIS, Frequency: "127.950", Name: "ATIS Pampulha"},
		{Type: GND, Frequency: "121.700", Name: "Solo Pampulha"},
		{Type: TWR, Frequency: "118.900", Name: "Torre Pampulha"},
		{Type: APP, Frequency: "119.400", Name: "Aproximação Belo Horizonte"},
	},

	// Porto Alegre - Salgado Filho
	"SBPA": {
		{Type: ATIS, Frequency: "127.700", Name: "ATIS Porto Alegre"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Porto Alegre"},
		{Type: GND, Frequency: "121.900", Name: "Solo Porto Alegre"},
		{Type: TWR, Frequency: "118.100", Name: "Torre Porto Alegre"},
		{Type: APP, Frequency: "120.800", Name: "Aproximação Porto Alegre"},
		{Type: DEP, Frequency: "127.400", Name: "Controle Porto Alegre"},
	},

	// Curitiba - Afonso Pena
	"SBCT": {
		{Type: ATIS, Frequency: "127.675", Name: "ATIS Curitiba"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Curitiba"},
		{Type: GND, Frequency: "121.700", Name: "Solo Curitiba"},
		{Type: TWR, Frequency: "118.550", Name: "Torre Curitiba"},
		{Type: APP, Frequency: "120.100", Name: "Aproximação Curitiba"},
		{Type: DEP, Frequency: "126.650", Name: "Controle Curitiba"},
	},

	// Florianópolis
	"SBFL": {
		{Type: ATIS, Frequency: "127.600", Name: "ATIS Florianópolis"},
		{Type: GND, Frequency: "121.900", Name: "Solo Florianópolis"},
		{Type: TWR, Frequency: "118.300", Name: "Torre Florianópolis"},
		{Type: APP, Frequency: "120.900", Name: "Aproximação Florianópolis"},
	},

	// Salvador
	"SBSV": {
		{Type: ATIS, Frequency: "127.975", Name: "ATIS Salvador"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Salvador"},
		{Type: GND, Frequency: "121.750", Name: "Solo Salvador"},
		{Type: TWR, Frequency: "118.350", Name: "Torre Salvador"},
		{Type: APP, Frequency: "120.000", Name: "Aproximação Salvador"},
		{Type: DEP, Frequency: "120.200", Name: "Controle Salvador"},
	},

	// Recife - Guararapes
	"SBRF": {
		{Type: ATIS, Frequency: "127.550", Name: "ATIS Recife"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Recife"},
		{Type: GND, Frequency: "121.900", Name: "Solo Recife"},
		{Type: TWR, Frequency: "118.700", Name: "Torre Recife"},
		{Type: APP, Frequency: "118.400", Name: "Aproximação Recife"},
		{Type: DEP, Frequency: "128.200", Name: "Controle Recife"},
	},

	// Fortaleza
	"SBFZ": {
		{Type: ATIS, Frequency: "127.900", Name: "ATIS Fortaleza"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Fortaleza"},
		{Type: GND, Frequency: "121.700", Name: "Solo Fortaleza"},
		{Type: TWR, Frequency: "118.600", Name: "Torre Fortaleza"},
		{Type: APP, Frequency: "119.350", Name: "Aproximação Fortaleza"},
		{Type: DEP, Frequency: "120.100", Name: "Controle Fortaleza"},
	},

	// Manaus - Eduardo Gomes
	"SBEG": {
		{Type: ATIS, Frequency: "127.850", Name: "ATIS Manaus"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Manaus"},
		{Type: GND, Frequency: "121.900", Name: "Solo Manaus"},
		{Type: TWR, Frequency: "118.400", Name: "Torre Manaus"},
		{Type: APP, Frequency: "119.200", Name: "Aproximação Manaus"},
		{Type: DEP, Frequency: "125.900", Name: "Controle Manaus"},
	},

	// Belém - Val de Cans
	"SBBE": {
		{Type: ATIS, Frequency: "127.600", Name: "ATIS Belém"},
		{Type: CLR, Frequency: "121.000", Name: "Tráfego Belém"},
		{Type: GND, Frequency: "121.700", Name: "Solo Belém"},
		{Type: TWR, Frequency: "118.300", Name: "Torre Belém"},
		{Type: APP, Frequency: "119.600", Name: "Aproximação Belém"},
		{Type: DEP, Frequency: "124.050", Name: "Controle Belém"},
	},

	// Natal
	"SBNT": {
		{Type: ATIS, Frequency: "127.450", Name: "ATIS Natal"},
		{Type: GND, Frequency: "121.700", Name: "Solo Natal"},
		{Type: TWR, Frequency: "118.500", Name: "Torre Natal"},
		{Type: APP, Frequency: "119.800", Name: "Aproximação Natal"},
	},

	// Goiânia
	"SBGO": {
		{Type: ATIS, Frequency: "127.425", Name: "ATIS Goiânia"},
		{Type: GND, Frequency: "121.900", Name: "Solo Goiânia"},
		{Type: TWR, Frequency: "118.200", Name: "Torre Goiânia"},
		{Type: APP, Frequency: "119.750", Name: "Aproximação Goiânia"},
	},

	// Cuiabá
	"SBCY": {
		{Type: ATIS, Frequency: "127.525", Name: "ATIS Cuiabá"},
		{Type: GND, Frequency: "121.850", Name: "Solo Cuiabá"},
		{Type: TWR, Frequency: "118.100", Name: "Torre Cuiabá"},
		{Type: APP, Frequency: "119.100", Name: "Aproximação Cuiabá"},
	},

	// Campo Grande
	"SBCG": {
		{Type: ATIS, Frequency: "127.350", Name: "ATIS Campo Grande"},
		{Type: GND, Frequency: "121.800", Name: "Solo Campo Grande"},
		{Type: TWR, Frequency: "118.400", Name: "Torre Campo Grande"},
		{Type: APP, Frequency: "119.500", Name: "Aproximação Campo Grande"},
	},

	// Vitória
	"SBVT": {
		{Type: ATIS, Frequency: "127.625", Name: "ATIS Vitória"},
		{Type: GND, Frequency: "121.800", Name: "Solo Vitória"},
		{Type: TWR, Frequency: "118.350", Name: "Torre Vitória"},
		{Type: APP, Frequency: "119.350", Name: "Aproximação Vitória"},
	},

	// João Pessoa
	"SBJP": {
		{Type: ATIS, Frequency: "127.350", Name: "ATIS João Pessoa"},
		{Type: GND, Frequency: "121.900", Name: "Solo João Pessoa"},
		{Type: TWR, Frequency: "118.100", Name: "Torre João Pessoa"},
		{Type: APP, Frequency: "119.600", Name: "Aproximação João Pessoa"},
	},

	// Maceió
	"SBMO": {
		{Type: ATIS, Frequency: "127.650", Name: "ATIS Maceió"},
		{Type: GND, Frequency: "121.700", Name: "Solo Maceió"},
		{Type: TWR, Frequency: "118.300", Name: "Torre Maceió"},
		{Type: APP, Frequency: "119.600", Name: "Aproximação Maceió"},
	},

	// Aracaju
	"SBAR": {
		{Type: GND, Frequency: "121.700", Name: "Solo Aracaju"},
		{Type: TWR, Frequency: "118.600", Name: "Torre Aracaju"},
		{Type: APP, Frequency: "119.100", Name: "Aproximação Aracaju"},
	},

	// Teresina
	"SBTE": {
		{Type: GND, Frequency: "121.900", Name: "Solo Teresina"},
		{Type: TWR, Frequency: "118.400", Name: "Torre Teresina"},
		{Type: APP, Frequency: "119.200", Name: "Aproximação Teresina"},
	},

	// São Luís
	"SBSL": {
		{Type: ATIS, Frequency: "127.850", Name: "ATIS São Luís"},
		{Type: GND, Frequency: "121.900", Name: "Solo São Luís"},
		{Type: TWR, Frequency: "118.100", Name: "Torre São Luís"},
		{Type: APP, Frequency: "119.200", Name: "Aproximação São Luís"},
	},

	// Joinville
	"SBJV": {
		{Type: GND, Frequency: "121.600", Name: "Solo Joinville"},
		{Type: TWR, Frequency: "118.800", Name: "Torre Joinville"},
	},

	// Londrina
	"SBLO": {
		{Type: GND, Frequency: "121.700", Name: "Solo Londrina"},
		{Type: TWR, Frequency: "118.000", Name: "Torre Londrina"},
		{Type: APP, Frequency: "120.700", Name: "Aproximação Londrina"},
	},

	// Navegantes
	"SBNF": {
		{Type: GND, Frequency: "121.700", Name: "Solo Navegantes"},
		{Type: TWR, Frequency: "118.100", Name: "Torre Navegantes"},
		{Type: APP, Frequency: "119.300", Name: "Aproximação Navegantes"},
	},

	// Ribeirão Preto
	"SBRP": {
		{Type: GND, Frequency: "121.600", Name: "Solo Ribeirão Preto"},
		{Type: TWR, Frequency: "118.400", Name: "Torre Ribeirão Preto"},
		{Type: APP, Frequency: "120.200", Name: "Aproximação Ribeirão Preto"},
	},

	// São José dos Campos
	"SBSJ": {
		{Type: GND, Frequency: "121.800", Name: "Solo São José"},
		{Type: TWR, Frequency: "118.100", Name: "Torre São José"},
		{Type: APP, Frequency: "119.100", Name: "Aproximação São Paulo"},
	},

	// Foz do Iguaçu
	"SBFI": {
		{Type: ATIS, Frequency: "127.575", Name: "ATIS Foz do Iguaçu"},
		{Type: GND, Frequency: "121.700", Name: "Solo Foz do Iguaçu"},
		{Type: TWR, Frequency: "118.500", Name: "Torre Foz do Iguaçu"},
		{Type: APP, Frequency: "119.400", Name: "Aproximação Foz do Iguaçu"},
	},

	// Campos dos Goytacazes
	"SBCP": {
		{Type: TWR, Frequency: "118.200", Name: "Torre Campos"},
	},

	// Uberlândia
	"SBUL": {
		{Type: GND, Frequency: "121.900", Name: "Solo Uberlândia"},
		{Type: TWR, Frequency: "118.050", Name: "Torre Uberlândia"},
		{Type: APP, Frequency: "119.950", Name: "Aproximação Uberlândia"},
	},

	// Maringá
	"SBMG": {
		{Type: GND, Frequency: "121.900", Name: "Solo Maringá"},
		{Type: TWR, Frequency: "118.300", Name: "Torre Maringá"},
		{Type: APP, Frequency: "119.600", Name: "Aproximação Maringá"},
	},
}

// Lookup returns the static frequency list for an airport, or nil if the
// airport is not in the table.
func Lookup(icao string) []Frequency {
	return brazilianAirports[strings.ToUpper(strings.TrimSpace(icao))]
}

// HasAirport reports whether the static table covers the given ICAO code.
func HasAirport(icao string) bool {
	_, ok := brazilianAirports[strings.ToUpper(strings.TrimSpace(icao))]
	return ok
}
