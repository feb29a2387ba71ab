// Package testutil holds structure fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
)

// PDBAtom builds a fixed-column ATOM/HETATM record.
func PDBAtom(record string, serial int, name, resName, chain string, seq int, x, y, z float64, element string) string {
	return fmt.Sprintf("%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		record, serial, name, resName, chain, seq, x, y, z, 1.0, 20.0, element)
}

// PDB joins records into a file body terminated by END.
func PDB(records ...string) []byte {
	return []byte(strings.Join(records, "\n") + "\nEND\n")
}

// GCDuplexPDB two-residue RNA chain: G1 and C2 on chain A. O3' of G1 sits
// 1.6 Å from P of C2, so the backbone annotator links them.
func GCDuplexPDB() []byte {
	return PDB(
		"HEADER    RNA                                     01-JAN-00   1GCA              ",
		PDBAtom("ATOM", 1, "P", "G", "A", 1, 0, 0, 0, "P"),
		PDBAtom("ATOM", 2, "O3'", "G", "A", 1, 2, 0, 0, "O"),
		PDBAtom("ATOM", 3, "N9", "G", "A", 1, 1, 3, 0, "N"),
		PDBAtom("ATOM", 4, "P", "C", "A", 2, 3.6, 0, 0, "P"),
		PDBAtom("ATOM", 5, "N1", "C", "A", 2, 4.4, 2, 2, "N"),
		"TER",
	)
}

// MinimalCIF mmCIF counterpart of a single G residue plus a magnesium ion.
const MinimalCIF = `data_1ABC
#
_entry.id 1ABC
#
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.label_atom_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_seq_id
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.auth_seq_id
_atom_site.auth_comp_id
_atom_site.auth_asym_id
_atom_site.auth_atom_id
_atom_site.pdbx_PDB_model_num
ATOM   1 P P     G  A 1 1.000 2.000 3.000 1 G  A P     1
ATOM   2 O "O5'" G  A 1 3.000 4.000 5.000 1 G  A "O5'" 1
HETATM 3 MG MG   MG B . 9.000 9.000 9.000 101 MG B MG  1
#
`
