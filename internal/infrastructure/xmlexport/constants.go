package xmlexport

// Namespaces y algoritmos XMLDSig usados en el extracto del libro.
const (
	NamespaceLedger = "urn:stock-ledger:ledger:1"
	NamespaceDS     = "http://www.w3.org/2000/09/xmldsig#"

	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256          = "http://www.w3.org/2001/04/xmlenc#sha256"
	AlgHMACSHA256      = "http://www.w3.org/2001/04/xmldsig-more#hmac-sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// RootElementID Id del elemento raíz al que apunta la Reference.
const RootElementID = "ledger-export"

const timeLayout = "2006-01-02T15:04:05.000Z"
