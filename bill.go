package billfetch

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// BillType is a closed-set code for a category of congressional bill.
type BillType string

// Bill type codes in their canonical enumeration order.
const (
	TypeHConRes BillType = "hconres" // House Concurrent Resolution
	TypeHJRes   BillType = "hjres"   // House Joint Resolution
	TypeHR      BillType = "hr"      // House Bill
	TypeHRes    BillType = "hres"    // House Simple Resolution
	TypeS       BillType = "s"       // Senate Bill
	TypeSConRes BillType = "sconres" // Senate Concurrent Resolution
	TypeSJRes   BillType = "sjres"   // Senate Joint Resolution
	TypeSRes    BillType = "sres"    // Senate Simple Resolution
)

// AllBillTypes returns every bill type in canonical order.
// Enumeration and resume behavior depend on this order being stable.
func AllBillTypes() []BillType {
	return []BillType{
		TypeHConRes, TypeHJRes, TypeHR, TypeHRes,
		TypeS, TypeSConRes, TypeSJRes, TypeSRes,
	}
}

// BillVersion is a closed-set code for a bill's lifecycle stage.
type BillVersion string

// Bill version codes in their canonical enumeration order.
const (
	VersionIH  BillVersion = "ih"  // Introduced in House
	VersionEH  BillVersion = "eh"  // Engrossed in House
	VersionRH  BillVersion = "rh"  // Reported in House
	VersionRFS BillVersion = "rfs" // Referred to Senate
	VersionIS  BillVersion = "is"  // Introduced in Senate
	VersionES  BillVersion = "es"  // Engrossed in Senate
	VersionRS  BillVersion = "rs"  // Reported in Senate
	VersionATS BillVersion = "ats" // Agreed to Senate
	VersionENR BillVersion = "enr" // Enrolled Bill
)

// AllBillVersions returns every bill version in canonical order.
func AllBillVersions() []BillVersion {
	return []BillVersion{
		VersionIH, VersionEH, VersionRH, VersionRFS,
		VersionIS, VersionES, VersionRS, VersionATS, VersionENR,
	}
}

// ValidBillType reports whether t is a member of the closed bill type set.
func ValidBillType(t BillType) bool {
	for _, known := range AllBillTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ValidBillVersion reports whether v is a member of the closed version set.
func ValidBillVersion(v BillVersion) bool {
	for _, known := range AllBillVersions() {
		if v == known {
			return true
		}
	}
	return false
}

// BillID identifies one version of one bill within a congress.
// It is a pure value type: two BillIDs with equal fields are the same bill.
// The canonical string form (see String) doubles as the ledger key, the
// storage directory name, and the file name stem, so the three can never
// drift apart.
type BillID struct {
	Congress string
	Type     BillType
	Number   int
	Version  BillVersion
}

// String returns the canonical govinfo package name, e.g. "BILLS-118hr1ih".
func (id BillID) String() string {
	return fmt.Sprintf("BILLS-%s%s%d%s", id.Congress, id.Type, id.Number, id.Version)
}

// DisplayTitle returns the placeholder title used when no richer title is
// available, e.g. "Bill BILLS-118hr1ih".
func (id BillID) DisplayTitle() string {
	return "Bill " + id.String()
}

// Validate returns an error if the identifier contains invalid fields.
func (id BillID) Validate() error {
	if id.Congress == "" {
		return Errorf(EINVALID, "bill congress required")
	}
	if !ValidBillType(id.Type) {
		return Errorf(EINVALID, "unknown bill type %q", id.Type)
	}
	if id.Number < 1 {
		return Errorf(EINVALID, "bill number must be positive, got %d", id.Number)
	}
	if !ValidBillVersion(id.Version) {
		return Errorf(EINVALID, "unknown bill version %q", id.Version)
	}
	return nil
}

// billIDPattern matches the canonical package name grammar. Digit and letter
// runs alternate, so the split into congress/type/number/version is unique.
var billIDPattern = regexp.MustCompile(`^BILLS-(\d+)([a-z]+)(\d+)([a-z]+)$`)

// ParseBillID parses a canonical package name back into a BillID.
// It is the exact inverse of String: ParseBillID(id.String()) == id for
// every valid id. Returns EINVALID for anything outside the grammar or
// outside the closed type/version sets.
func ParseBillID(s string) (BillID, error) {
	m := billIDPattern.FindStringSubmatch(s)
	if m == nil {
		return BillID{}, Errorf(EINVALID, "bill ID %q does not match BILLS-<congress><type><number><version>", s)
	}

	number, err := strconv.Atoi(m[3])
	if err != nil {
		return BillID{}, Errorf(EINVALID, "bill ID %q has invalid number: %v", s, err)
	}

	id := BillID{
		Congress: m[1],
		Type:     BillType(m[2]),
		Number:   number,
		Version:  BillVersion(m[4]),
	}
	if err := id.Validate(); err != nil {
		return BillID{}, Errorf(EINVALID, "bill ID %q: %s", s, ErrorMessage(err))
	}
	return id, nil
}

// ParseBillIDFromURL extracts a BillID from the filename of a document URL,
// e.g. ".../pdf/BILLS-118hr1ih.pdf" -> BILLS-118hr1ih. URLs whose filename
// does not match the identifier grammar fail fast with EINVALID rather than
// being guessed at.
func ParseBillIDFromURL(rawURL string) (BillID, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return BillID{}, Errorf(EINVALID, "cannot parse URL %q: %v", rawURL, err)
	}

	base := path.Base(u.Path)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return ParseBillID(stem)
}
