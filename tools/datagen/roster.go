package main

// provinceSeat is one roster province with its region.
type provinceSeat struct {
	region   string
	province string
}

// provinceRoster spreads the generated precincts across a representative set
// of provinces. Region and province names follow the upper-case convention of
// the transparency exports.
var provinceRoster = []provinceSeat{
	{"REGION I", "ILOCOS NORTE"},
	{"REGION I", "ILOCOS SUR"},
	{"REGION I", "LA UNION"},
	{"REGION I", "PANGASINAN"},
	{"REGION II", "CAGAYAN"},
	{"REGION II", "ISABELA"},
	{"REGION III", "BATAAN"},
	{"REGION III", "BULACAN"},
	{"REGION III", "NUEVA ECIJA"},
	{"REGION III", "PAMPANGA"},
	{"REGION IV-A", "BATANGAS"},
	{"REGION IV-A", "CAVITE"},
	{"REGION IV-A", "LAGUNA"},
	{"REGION IV-A", "RIZAL"},
	{"REGION V", "ALBAY"},
	{"REGION V", "CAMARINES SUR"},
	{"REGION VI", "ILOILO"},
	{"REGION VI", "NEGROS OCCIDENTAL"},
	{"REGION VII", "BOHOL"},
	{"REGION VII", "CEBU"},
	{"REGION XI", "DAVAO DEL SUR"},
	{"CAR", "BENGUET"},
	{"NCR", "METRO MANILA"},
}

var givenNames = []string{
	"JUAN", "MARIA", "JOSE", "ANA", "PEDRO", "CLARA", "RAMON", "TERESA",
	"ANDRES", "LUCIA", "CARLOS", "ISABEL", "MIGUEL", "ROSA", "ANTONIO",
	"CORAZON", "EDUARDO", "JOSEFA", "FERNANDO", "MARILOU", "RICARDO",
	"GLORIA", "DANILO", "ERLINDA", "ROBERTO", "NORMA", "ERNESTO", "LYDIA",
	"ALFREDO", "VILMA",
}

var surnames = []string{
	"DELA CRUZ", "SANTOS", "REYES", "RAMOS", "BAUTISTA", "OCAMPO", "GARCIA",
	"MENDOZA", "TORRES", "FLORES", "AQUINO", "VILLANUEVA", "CASTILLO",
	"DOMINGO", "SALAZAR", "NAVARRO", "MERCADO", "AGUILAR", "PASCUAL",
	"SORIANO", "CORPUZ", "LOPEZ", "RIVERA", "TOLENTINO", "GONZALES",
	"FERNANDEZ", "SANTIAGO", "VALDEZ", "PADILLA", "MANALO", "ABAD", "DIZON",
}

var partyNames = []string{
	"PARTIDO NG BAYAN",
	"LAKAS NG MASA",
	"BAGONG SIBOL",
	"UGNAYAN NG NAYON",
	"KATIPUNAN NG REPORMA",
	"ANIB NG PROBINSYA",
	"TINIG NG SAMBAYANAN",
	"PAGKAKAISA NG BAYAN",
	"ALYANSA NG PAG-ASA",
	"KILUSAN NG KAUNLARAN",
	"SULONG PILIPINAS",
	"TAPAT NA SERBISYO",
}

var partyListPrefixes = []string{
	"ANG", "ABANTE", "ALYANSA NG", "SAMAHAN NG", "KILUSANG", "UGNAYAN NG",
	"TINIG NG", "SULONG", "BAGONG", "LINGKOD",
}

var partyListSectors = []string{
	"MAGSASAKA", "MANGGAGAWA", "KABATAAN", "GURO", "MANDARAGAT", "DRAYBER",
	"MAGULANG", "SENYOR", "KABABAIHAN", "MAGTITINDA", "KOOPERATIBA",
	"BARANGAY", "PROBINSYANO", "MAG-AARAL", "TSUPER", "OFW",
}
