// Shipstats Core
// Copyright (c) 2026 The Shipstats Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Shipstats Core.
//
// Shipstats Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Shipstats Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Shipstats Core.  If not, see <http://www.gnu.org/licenses/>.

package fixtures

// WorksCSV is a small works export: two Aang/Katara works in January, one
// Mai/Zuko work in March and one work without ships.
const WorksCSV = `work_id,ships,hits,kudos,created
1,Aang/Katara,100,10,2024-01-05
2,Aang/Katara,50,5,2024-01-20
3,Mai/Zuko,30,3,2024-03-02
4,,99,9,2024-03-03
`

// MessyWorksCSV has every kind of row the loader skips: missing ships, a
// missing or bad created date, a blank weight. Work 2 falls back to its
// listing date.
const MessyWorksCSV = `work_id,title,authors,ships,language,words,chapters,collections,comments,kudos,bookmarks,hits,date,created,url
1,One,a,Aang/Katara,English,"1,200",1,0,3,10,2,100,05 Jan 2024,2024-01-05,https://example.org/works/1
2,Two,b,Aang/Katara; Zuko & Iroh,English,800,2,1,0,4,1,50,20 Jan 2024,,https://example.org/works/2
3,Three,c,,English,10,1,0,0,0,0,5,21 Jan 2024,2024-01-21,https://example.org/works/3
4,Four,d,Toph,English,10,1,0,0,0,0,,22 Jan 2024,2024-01-22,https://example.org/works/4
5,Five,e,Sokka/Suki,English,10,1,0,0,0,0,7,,not a date,https://example.org/works/5
6,Six,f,Mai/Zuko,English,10,1,0,0,0,0,9,,,https://example.org/works/6
`
