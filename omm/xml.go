/*
 * xml.go, part of openff-interchange.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

//xml.go declares the wire shape of the System XML. Field names mirror
//OpenMM's serialization; everything is attributes, lists are nested
//elements.

package omm

import "encoding/xml"

type xmlSystem struct {
	XMLName   xml.Name     `xml:"System"`
	Version   int          `xml:"version,attr"`
	Box       *xmlBox      `xml:"PeriodicBoxVectors"`
	Particles xmlParticles `xml:"Particles"`
	Sites     *xmlSites    `xml:"VirtualSites"`
	Forces    xmlForces    `xml:"Forces"`
}

type xmlBox struct {
	A xmlVec `xml:"A"`
	B xmlVec `xml:"B"`
	C xmlVec `xml:"C"`
}

type xmlVec struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

type xmlParticles struct {
	P []xmlParticle `xml:"Particle"`
}

type xmlParticle struct {
	Mass float64 `xml:"mass,attr"`
}

type xmlSites struct {
	S []xmlSite `xml:"VirtualSite"`
}

type xmlSite struct {
	Index   int         `xml:"index,attr"`
	Type    string      `xml:"type,attr"`
	Orients []xmlOrient `xml:"Orient"`
}

type xmlOrient struct {
	Particle int     `xml:"p,attr"`
	Weight   float64 `xml:"weight,attr"`
}

type xmlForces struct {
	F []xmlForce `xml:"Force"`
}

type xmlForce struct {
	Type       string  `xml:"type,attr"`
	Group      int     `xml:"forceGroup,attr"`
	Coulomb14  float64 `xml:"coulomb14scale,attr,omitempty"`
	LJ14       float64 `xml:"lj14scale,attr,omitempty"`
	Bonds      *xmlBondList      `xml:"Bonds"`
	Angles     *xmlAngleList     `xml:"Angles"`
	Torsions   *xmlTorsionList   `xml:"Torsions"`
	Particles  *xmlNBParticles   `xml:"Particles"`
	Exceptions *xmlExceptionList `xml:"Exceptions"`
}

type xmlBondList struct {
	B []xmlBond `xml:"Bond"`
}

type xmlBond struct {
	P1 int     `xml:"p1,attr"`
	P2 int     `xml:"p2,attr"`
	D  float64 `xml:"d,attr"`
	K  float64 `xml:"k,attr"`
}

type xmlAngleList struct {
	A []xmlAngle `xml:"Angle"`
}

type xmlAngle struct {
	P1 int     `xml:"p1,attr"`
	P2 int     `xml:"p2,attr"`
	P3 int     `xml:"p3,attr"`
	A  float64 `xml:"a,attr"`
	K  float64 `xml:"k,attr"`
}

type xmlTorsionList struct {
	T []xmlTorsion `xml:"Torsion"`
}

type xmlTorsion struct {
	P1          int     `xml:"p1,attr"`
	P2          int     `xml:"p2,attr"`
	P3          int     `xml:"p3,attr"`
	P4          int     `xml:"p4,attr"`
	Periodicity int     `xml:"periodicity,attr"`
	Phase       float64 `xml:"phase,attr"`
	K           float64 `xml:"k,attr"`
}

type xmlNBParticles struct {
	P []xmlNBParticle `xml:"Particle"`
}

type xmlNBParticle struct {
	Charge  float64 `xml:"q,attr"`
	Sigma   float64 `xml:"sig,attr"`
	Epsilon float64 `xml:"eps,attr"`
}

type xmlExceptionList struct {
	E []xmlException `xml:"Exception"`
}

type xmlException struct {
	P1         int     `xml:"p1,attr"`
	P2         int     `xml:"p2,attr"`
	ChargeProd float64 `xml:"q,attr"`
	Sigma      float64 `xml:"sig,attr"`
	Epsilon    float64 `xml:"eps,attr"`
}
