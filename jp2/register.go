package jp2

import "github.com/ajroetker/go-jp2graphic/graphic"

// Format registry identity for the JPEG2000 family.
const (
	FormatExt  = "jp2"
	FormatName = "JPEG2000"
)

// Signature prefixes per ITU-T T.800: the 12-byte signature box that opens
// every JP2-family file, and the SOC+SIZ marker pair that opens a raw
// codestream.
var (
	jp2SignatureMagic  = []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20, 0x0D, 0x0A, 0x87, 0x0A}
	j2kCodestreamMagic = []byte{0xFF, 0x4F, 0xFF, 0x51}
)

// RegisterFormat registers the JPEG2000 graphic against the default format
// registry, keyed by the "jp2" extension and matched by JP2/J2K signature
// bytes. Hosts call this once at startup, paired with UnregisterFormat at
// shutdown; every graphic the registry constructs decodes through lib.
func RegisterFormat(lib Library, opts ...Option) {
	graphic.Register(graphic.Format{
		Ext:   FormatExt,
		Name:  FormatName,
		Magic: [][]byte{jp2SignatureMagic, j2kCodestreamMagic},
		New:   func() graphic.Graphic { return New(lib, opts...) },
	})
}

// UnregisterFormat removes the JPEG2000 entry from the default registry.
func UnregisterFormat() {
	graphic.Unregister(FormatExt)
}
